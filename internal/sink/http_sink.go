package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// HTTPSink forwards records to a remote archive service: question/answer
// pairs to {base}/uploadPrediction and breed submissions to {base}/submit.
// Only the response status is consumed.
type HTTPSink struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

func NewHTTPSink(baseURL string, logger *slog.Logger) *HTTPSink {
	return &HTTPSink{
		baseURL: baseURL,
		client:  &http.Client{Timeout: logTimeout},
		logger:  logger,
	}
}

func (s *HTTPSink) LogQA(_ context.Context, question, answer string, timestamp time.Time) {
	s.post("/uploadPrediction", map[string]string{
		"question":  question,
		"answer":    answer,
		"timestamp": timestamp.UTC().Format(time.RFC3339),
	})
}

func (s *HTTPSink) LogBreed(_ context.Context, breed string, timestamp time.Time) {
	s.post("/submit", map[string]string{
		"breed":     breed,
		"timestamp": timestamp.UTC().Format(time.RFC3339),
	})
}

func (s *HTTPSink) post(path string, record map[string]string) {
	go func() {
		payload, err := json.Marshal(record)
		if err != nil {
			s.logger.Error("failed to marshal archive record", "path", path, "error", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), logTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			s.logger.Error("failed to create archive request", "path", path, "error", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			s.logger.Error("failed to post archive record", "path", path, "error", err)
			return
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				s.logger.Error("failed to close archive response body", "error", err)
			}
		}()
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			s.logger.Error("archive service rejected record", "path", path, "status", resp.StatusCode)
		}
	}()
}
