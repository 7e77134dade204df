package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/galder-dev/dogchat/internal/domain"
	"github.com/galder-dev/dogchat/internal/service"
)

const maxImageSize = 10 * 1024 * 1024 // 10 MB

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

type entryResponse struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toEntryResponse(e domain.TranscriptEntry) entryResponse {
	resp := entryResponse{
		ID:        e.ID,
		Sender:    string(e.Sender),
		Text:      e.Text,
		CreatedAt: e.CreatedAt,
	}
	if e.ImageKey != "" {
		resp.ImageURL = "/api/photos/" + e.ImageKey
	}
	return resp
}

func (s *Server) handleAskQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	result, err := s.service.AskQuestion(r.Context(), req.Question)
	if err != nil {
		s.logger.Error("ask question failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process question")
		return
	}

	writeJSON(w, chatStatus(result), map[string]any{
		"answer":   result.BotEntry.Text,
		"answered": result.Answered,
		"entries":  []entryResponse{toEntryResponse(result.UserEntry), toEntryResponse(result.BotEntry)},
	})
}

func (s *Server) handleSubmitImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		writeError(w, http.StatusBadRequest, "failed to parse form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.logger.Error("read upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		writeError(w, http.StatusBadRequest, "unsupported image format")
		return
	}

	result, err := s.service.SubmitImage(r.Context(), imageData, mimeType)
	if err != nil {
		s.writeChatError(w, err)
		return
	}

	writeJSON(w, chatStatus(&result.ChatResult), map[string]any{
		"label":      result.Label,
		"confidence": result.Confidence,
		"answer":     result.BotEntry.Text,
		"answered":   result.Answered,
		"entries":    []entryResponse{toEntryResponse(result.UserEntry), toEntryResponse(result.BotEntry)},
	})
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	entries := s.service.Transcript()
	resp := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, toEntryResponse(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": resp})
}

// chatStatus maps a completed flow to its response status. A failed QA call
// still produced the apology bot entry; 502 tells the client the answer side
// broke without leaking transport detail.
func chatStatus(result *service.ChatResult) int {
	if result.Failed {
		return http.StatusBadGateway
	}
	return http.StatusOK
}

// writeChatError maps pipeline errors to response codes. The raw error text
// stays in the diagnostic log.
func (s *Server) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidImage):
		writeError(w, http.StatusBadRequest, "unsupported image")
	case errors.Is(err, domain.ErrModelNotReady):
		writeError(w, http.StatusServiceUnavailable, "the classifier model is still loading, try again shortly")
	case errors.Is(err, domain.ErrUnknownClass):
		s.logger.Error("classifier produced unknown class", "error", err)
		writeError(w, http.StatusBadGateway, "classification failed")
	default:
		s.logger.Error("image flow failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to process image")
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
