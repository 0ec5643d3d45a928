package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dumbpishu/ExplainThis/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto status classes. Bad-input errors
// carry their message to the caller; everything else is logged server-side
// and reported as a generic failure so provider detail never leaks.
func writeError(w http.ResponseWriter, err error) {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: vErr.Msg})
		return
	}

	var xErr *core.ExtractionError
	if errors.As(err, &xErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: xErr.Msg})
		return
	}

	log.Printf("internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
}
