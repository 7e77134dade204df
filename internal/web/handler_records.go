package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

// Bounds for the record listing endpoints.
const (
	defaultRecordLimit = 50
	maxRecordLimit     = 500
)

// parseTimestamp accepts the ISO-8601 timestamps the form clients send.
func parseTimestamp(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339, raw)
}

func (s *Server) handleSubmitBreed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Breed     string `json:"breed"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Breed == "" {
		writeError(w, http.StatusBadRequest, "breed is required")
		return
	}

	ts, err := parseTimestamp(req.Timestamp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "timestamp must be ISO-8601")
		return
	}

	if _, err := s.service.SubmitBreed(r.Context(), req.Breed, ts); err != nil {
		s.logger.Error("breed submission failed", "breed", req.Breed, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save submission")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Datos guardados correctamente"})
}

func (s *Server) handleUploadPrediction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question  string `json:"question"`
		Answer    string `json:"answer"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	ts, err := parseTimestamp(req.Timestamp)
	if err != nil {
		writeError(w, http.StatusBadRequest, "timestamp must be ISO-8601")
		return
	}

	if _, err := s.service.ArchivePrediction(r.Context(), req.Question, req.Answer, ts); err != nil {
		s.logger.Error("prediction upload failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save prediction")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Prediction data uploaded successfully"})
}

// recordLimit reads the limit query parameter, falling back to the default on
// anything unusable.
func recordLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultRecordLimit
	}
	if n > maxRecordLimit {
		return maxRecordLimit
	}
	return n
}

type predictionRecordResponse struct {
	ID        int64  `json:"id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	logs, err := s.service.RecentPredictions(r.Context(), recordLimit(r))
	if err != nil {
		s.logger.Error("failed to list prediction logs", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list predictions")
		return
	}

	out := make([]predictionRecordResponse, 0, len(logs))
	for _, rec := range logs {
		out = append(out, predictionRecordResponse{
			ID:        rec.ID,
			Question:  rec.Question,
			Answer:    rec.Answer,
			Timestamp: rec.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"predictions": out})
}

type breedRecordResponse struct {
	ID        int64  `json:"id"`
	Breed     string `json:"breed"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleListBreeds(w http.ResponseWriter, r *http.Request) {
	subs, err := s.service.RecentBreeds(r.Context(), recordLimit(r))
	if err != nil {
		s.logger.Error("failed to list breed submissions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}

	out := make([]breedRecordResponse, 0, len(subs))
	for _, rec := range subs {
		out = append(out, breedRecordResponse{
			ID:        rec.ID,
			Breed:     rec.Breed,
			Timestamp: rec.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": out})
}
