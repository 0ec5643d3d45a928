package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/dumbpishu/ExplainThis/internal/core"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterGenerator brokers generation through OpenRouter's
// OpenAI-compatible API. Selected over Gemini purely by configuration.
type OpenRouterGenerator struct {
	client *openai.Client
}

func NewOpenRouterGenerator(apiKey, baseURL, siteURL, appName string) *OpenRouterGenerator {
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	conf := openai.DefaultConfig(apiKey)
	conf.BaseURL = baseURL
	conf.HTTPClient = &http.Client{
		Transport: &attributionTransport{siteURL: siteURL, appName: appName},
	}
	return &OpenRouterGenerator{client: openai.NewClientWithConfig(conf)}
}

func (g *OpenRouterGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &core.GenerationError{Model: model, Status: openaiStatusOf(err), Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

var _ core.Generator = (*OpenRouterGenerator)(nil)

func openaiStatusOf(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

// attributionTransport adds the OpenRouter ranking headers to every request.
type attributionTransport struct {
	siteURL string
	appName string
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.siteURL != "" {
		req.Header.Set("HTTP-Referer", t.siteURL)
	}
	if t.appName != "" {
		req.Header.Set("X-Title", t.appName)
	}
	return http.DefaultTransport.RoundTrip(req)
}
