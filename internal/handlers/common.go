package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/captionworks/captioner/internal/captioning"
	"github.com/captionworks/captioner/internal/images"
	"github.com/captionworks/captioner/internal/models"
)

type Handler struct {
	captionService *captioning.Service
	imageFetcher   *images.Fetcher
}

func New() *Handler {
	return &Handler{
		captionService: captioning.NewService(),
		imageFetcher:   images.NewFetcher(),
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	h.writeJSON(w, code, models.NewErrorResponse(message))
}
