package sink

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galder-dev/dogchat/internal/domain"
)

type memPredictions struct {
	mu   sync.Mutex
	logs []domain.PredictionLog
	err  error
}

func (m *memPredictions) Create(_ context.Context, question, answer string, ts time.Time) (*domain.PredictionLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := domain.PredictionLog{ID: int64(len(m.logs) + 1), Question: question, Answer: answer, Timestamp: ts}
	m.logs = append(m.logs, rec)
	return &rec, nil
}

func (m *memPredictions) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.logs)
}

func TestStoreSinkLogQA(t *testing.T) {
	preds := &memPredictions{}
	s := NewStoreSink(preds, slog.Default())

	s.LogQA(context.Background(), "Labrador", "A friendly retriever.", time.Now())

	require.Eventually(t, func() bool { return preds.count() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, "Labrador", preds.logs[0].Question)
}

func TestStoreSinkIgnoresBreeds(t *testing.T) {
	// Breed submissions are persisted synchronously by the caller; the local
	// sink must not write a second row for them.
	preds := &memPredictions{}
	s := NewStoreSink(preds, slog.Default())

	s.LogBreed(context.Background(), "Poodle", time.Now())
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, preds.count())
}

func TestStoreSinkSwallowsWriteErrors(t *testing.T) {
	preds := &memPredictions{err: errors.New("disk full")}
	s := NewStoreSink(preds, slog.Default())

	// Must not panic or surface the failure; nothing observable to wait on,
	// so just give the goroutine a moment.
	s.LogQA(context.Background(), "q", "a", time.Now())
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, preds.count())
}

func TestHTTPSinkPostsRecords(t *testing.T) {
	var mu sync.Mutex
	received := map[string]map[string]string{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		mu.Lock()
		received[r.URL.Path] = body
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := NewHTTPSink(server.URL, slog.Default())
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.LogQA(context.Background(), "Labrador", "A friendly retriever.", ts)
	s.LogBreed(context.Background(), "Poodle", ts)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(received) == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "Labrador", received["/uploadPrediction"]["question"])
	assert.Equal(t, "2024-06-01T12:00:00Z", received["/uploadPrediction"]["timestamp"])
	assert.Equal(t, "Poodle", received["/submit"]["breed"])
}

func TestHTTPSinkSwallowsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer server.Close()

	s := NewHTTPSink(server.URL, slog.Default())
	s.LogQA(context.Background(), "q", "a", time.Now())
	time.Sleep(50 * time.Millisecond)
}
