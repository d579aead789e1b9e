package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/captionworks/captioner/internal/captioning"
	"github.com/captionworks/captioner/internal/models"
	"github.com/google/uuid"
)

// HandleCaption handles POST /caption: a multipart image upload, or a JSON
// body with an image URL to fetch server-side
func (h *Handler) HandleCaption(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleURLCaption(w, r, false)
		return
	}

	h.handleFileCaption(w, r, false)
}

// HandleCustomCaption handles POST /caption/custom: same inputs as /caption
// plus a required caption instruction
func (h *Handler) HandleCustomCaption(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		h.handleURLCaption(w, r, true)
		return
	}

	h.handleFileCaption(w, r, true)
}

// HandleHealth handles GET /caption/health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Unable to write healthcheck", "err", err)
	}
}

func (h *Handler) handleFileCaption(w http.ResponseWriter, r *http.Request, requirePrompt bool) {
	file, header, err := r.FormFile("image")
	if err != nil {
		file, header, err = r.FormFile("file")
		if err != nil {
			h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, captioning.MaxImageSize+1))
	if err != nil {
		h.writeError(w, "Failed to read file contents: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if len(fileData) == 0 {
		h.writeError(w, "Uploaded file is empty", http.StatusBadRequest)
		return
	}

	if len(fileData) > captioning.MaxImageSize {
		h.writeError(w, "File too large (max 10MB)", http.StatusBadRequest)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(fileData)
	}

	if !captioning.AllowedImageType(mimeType) {
		h.writeError(w, "Unsupported image type: "+mimeType+" (allowed: jpeg, png, gif, webp)", http.StatusBadRequest)
		return
	}

	prompt := r.FormValue("prompt")
	if requirePrompt && strings.TrimSpace(prompt) == "" {
		h.writeError(w, "prompt is required", http.StatusBadRequest)
		return
	}

	h.processCaption(w, r, captioning.Request{
		ImageData: fileData,
		MimeType:  mimeType,
		Prompt:    prompt,
		Provider:  r.FormValue("provider"),
		Model:     r.FormValue("model"),
	})
}

func (h *Handler) handleURLCaption(w http.ResponseWriter, r *http.Request, requirePrompt bool) {
	var request struct {
		ImageURL string `json:"image_url"`
		Prompt   string `json:"prompt"`
		Provider string `json:"provider"`
		Model    string `json:"model"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	if request.ImageURL == "" {
		h.writeError(w, "image_url is required", http.StatusBadRequest)
		return
	}

	if requirePrompt && strings.TrimSpace(request.Prompt) == "" {
		h.writeError(w, "prompt is required", http.StatusBadRequest)
		return
	}

	imageData, mimeType, err := h.imageFetcher.Fetch(r.Context(), request.ImageURL)
	if err != nil {
		h.writeError(w, "Failed to fetch image URL: "+err.Error(), http.StatusBadRequest)
		return
	}

	if len(imageData) == 0 {
		h.writeError(w, "Fetched image is empty", http.StatusBadRequest)
		return
	}

	if !captioning.AllowedImageType(mimeType) {
		h.writeError(w, "Unsupported image type: "+mimeType+" (allowed: jpeg, png, gif, webp)", http.StatusBadRequest)
		return
	}

	h.processCaption(w, r, captioning.Request{
		ImageData: imageData,
		MimeType:  mimeType,
		Prompt:    request.Prompt,
		Provider:  request.Provider,
		Model:     request.Model,
	})
}

func (h *Handler) processCaption(w http.ResponseWriter, r *http.Request, req captioning.Request) {
	requestID := uuid.NewString()
	slog.Info("Caption request", "request_id", requestID, "bytes", len(req.ImageData), "mime_type", req.MimeType)

	caption, err := h.captionService.Caption(r.Context(), req)
	if err != nil {
		slog.Error("Caption generation failed", "request_id", requestID, "err", err)
		h.writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse(err.Error()))
		return
	}

	h.writeJSON(w, http.StatusOK, models.NewSuccessResponse(caption))
}
