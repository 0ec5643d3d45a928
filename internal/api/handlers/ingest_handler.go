package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"github.com/dumbpishu/ExplainThis/internal/core"
	"github.com/dumbpishu/ExplainThis/internal/core/pipeline"
	"github.com/dumbpishu/ExplainThis/internal/core/session"
	"github.com/dumbpishu/ExplainThis/internal/core/textsplit"
	"github.com/dumbpishu/ExplainThis/internal/models"
)

// Ingestor is the slice of the ingestion pipeline the handler needs.
type Ingestor interface {
	Ingest(ctx context.Context, text string, opts pipeline.IngestOptions) (*models.IngestResult, error)
}

// SessionMinter mints new session ids.
type SessionMinter interface {
	Create() string
}

type IngestHandler struct {
	ingestor   Ingestor
	sessions   SessionMinter
	textLayer  core.PdfTextExtractor
	ocr        core.PdfTextExtractor
	archive    core.ObjectStore // nil when archival is disabled
	maxTextLen int
}

func NewIngestHandler(ing Ingestor, sessions SessionMinter, textLayer, ocrFallback core.PdfTextExtractor, archive core.ObjectStore, maxTextLen int) *IngestHandler {
	return &IngestHandler{
		ingestor:   ing,
		sessions:   sessions,
		textLayer:  textLayer,
		ocr:        ocrFallback,
		archive:    archive,
		maxTextLen: maxTextLen,
	}
}

type ingestTextRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"sessionId"`
}

type ingestResponse struct {
	Message    string `json:"message"`
	Summary    string `json:"summary,omitempty"`
	ChunkCount int    `json:"chunkCount"`
	SessionID  string `json:"sessionId"`
}

// IngestText handles POST /api/ingest-text.
func (h *IngestHandler) IngestText(w http.ResponseWriter, r *http.Request) {
	var req ingestTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &core.ValidationError{Msg: "invalid request body"})
		return
	}
	if req.Text == "" {
		writeError(w, &core.ValidationError{Msg: "text is required"})
		return
	}
	if h.maxTextLen > 0 && len([]rune(req.Text)) > h.maxTextLen {
		writeError(w, &core.ValidationError{Msg: "text too large"})
		return
	}

	h.ingest(w, r, req.Text, req.SessionID)
}

// IngestPDF handles POST /api/ingest-pdf: text layer first, OCR when the
// layer is missing or garbled, reject when both come back unreadable.
func (h *IngestHandler) IngestPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, &core.ValidationError{Msg: "invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, &core.ValidationError{Msg: "file is required"})
		return
	}
	defer file.Close()

	pdf, err := io.ReadAll(file)
	if err != nil {
		writeError(w, fmt.Errorf("read upload: %w", err))
		return
	}

	text, err := h.extractReadableText(r.Context(), pdf)
	if err != nil {
		writeError(w, err)
		return
	}

	sessionID := h.sessions.Create()
	h.archiveUpload(r.Context(), sessionID, filepath.Base(header.Filename), pdf)

	h.ingest(w, r, text, sessionID)
}

func (h *IngestHandler) extractReadableText(ctx context.Context, pdf []byte) (string, error) {
	raw, err := h.textLayer.ExtractText(ctx, pdf)
	if err != nil {
		log.Printf("ingest: text layer extraction failed, trying ocr: %v", err)
	}

	text := textsplit.Clean(raw)
	if textsplit.IsReadable(text) {
		return text, nil
	}

	raw, err = h.ocr.ExtractText(ctx, pdf)
	if err != nil {
		return "", err
	}

	text = textsplit.Clean(raw)
	if !textsplit.IsReadable(text) {
		return "", &core.ExtractionError{Msg: "could not extract readable text from the PDF"}
	}
	return text, nil
}

// archiveUpload is best-effort: a failed archive write never fails the
// ingestion.
func (h *IngestHandler) archiveUpload(ctx context.Context, sessionID, filename string, pdf []byte) {
	if h.archive == nil {
		return
	}
	key := session.ArchivePrefix(sessionID) + filename
	if _, err := h.archive.Upload(ctx, key, pdf, "application/pdf"); err != nil {
		log.Printf("ingest: archive of %s failed: %v", key, err)
	}
}

func (h *IngestHandler) ingest(w http.ResponseWriter, r *http.Request, text, sessionID string) {
	if sessionID == "" {
		sessionID = h.sessions.Create()
	}

	result, err := h.ingestor.Ingest(r.Context(), text, pipeline.IngestOptions{
		SessionID: sessionID,
		Summarize: true,
		Embed:     true,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		Message:    "Ingestion complete.",
		Summary:    result.Summary,
		ChunkCount: result.ChunkCount,
		SessionID:  sessionID,
	})
}
