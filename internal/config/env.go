package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	CorsOrigin string

	DatabaseURL string
	RedisURL    string

	LLMProvider      string // "gemini" or "openrouter"
	GeminiAPIKey     string
	OpenRouterAPIKey string
	OpenRouterURL    string
	SiteURL          string
	AppName          string

	EmbedModel string
	EmbedDim   int
	GenModels  []string
	GenTimeout int // seconds, per model attempt

	ChunkSize    int
	ChunkOverlap int
	MaxTextLen   int
	TopK         int

	OCRDensity   int
	OCRThreshold int
	OCRWidth     int
	OCRLanguage  string

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string
}

// LoadConfig loads the environment variables and returns the config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		Port:       getEnv("PORT", "8000"),
		CorsOrigin: getEnv("CORS_ORIGIN", "http://localhost:5173"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),

		LLMProvider:      getEnv("LLM_PROVIDER", "gemini"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		OpenRouterURL:    getEnv("OPENROUTER_URL", ""),
		SiteURL:          getEnv("SITE_URL", "http://localhost:3000"),
		AppName:          getEnv("APP_NAME", "ExplainThis"),

		EmbedModel: getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedDim:   getEnvInt("EMBED_DIM", 768),
		GenModels:  splitList(getEnv("GEN_MODELS", "gemini-2.5-flash-lite,gemini-2.5-flash")),
		GenTimeout: getEnvInt("GEN_TIMEOUT_SECONDS", 60),

		ChunkSize:    getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 100),
		MaxTextLen:   getEnvInt("MAX_TEXT_LEN", 20000),
		TopK:         getEnvInt("TOP_K", 5),

		OCRDensity:   getEnvInt("OCR_DENSITY", 200),
		OCRThreshold: getEnvInt("OCR_THRESHOLD", 150),
		OCRWidth:     getEnvInt("OCR_WIDTH", 1800),
		OCRLanguage:  getEnv("OCR_LANGUAGE", "eng"),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-2"),
		BucketName:   getEnv("BUCKET_NAME", ""),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		log.Fatalf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	return cfg
}

// ArchiveEnabled reports whether the optional S3 archival is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.AwsAccessKey != "" && c.AwsSecretKey != "" && c.BucketName != ""
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
