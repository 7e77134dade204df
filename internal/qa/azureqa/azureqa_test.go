package azureqa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galder-dev/dogchat/internal/domain"
	"github.com/galder-dev/dogchat/internal/qa"
)

func TestAskTopAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.Equal(t, "ChatBotDePerros", r.URL.Query().Get("projectName"))
		assert.Equal(t, "production", r.URL.Query().Get("deploymentName"))

		var req struct {
			Top                      int     `json:"top"`
			Question                 string  `json:"question"`
			ConfidenceScoreThreshold float64 `json:"confidenceScoreThreshold"`
			AnswerSpanRequest        struct {
				Enable bool `json:"enable"`
			} `json:"answerSpanRequest"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 3, req.Top)
		assert.Equal(t, "Labrador", req.Question)
		assert.InDelta(t, 0.5, req.ConfidenceScoreThreshold, 1e-9)
		assert.True(t, req.AnswerSpanRequest.Enable)

		resp := map[string]any{
			"answers": []map[string]any{
				{"answer": "Labradors are friendly retrievers.", "confidenceScore": 0.92},
				{"answer": "A second-ranked answer.", "confidenceScore": 0.41},
			},
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "ChatBotDePerros", "production", "secret-key")
	result, err := client.Ask(context.Background(), "Labrador")

	require.NoError(t, err)
	assert.Equal(t, "Labradors are friendly retrievers.", result.Answer)
	assert.InDelta(t, 0.92, result.Confidence, 1e-9)
}

func TestAskEmptyAnswerSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewEncoder(w).Encode(map[string]any{"answers": []any{}}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "p", "d", "k")
	_, err := client.Ask(context.Background(), "¿cuánto pesa un Beagle?")

	assert.True(t, errors.Is(err, domain.ErrEmptyAnswerSet))
}

func TestAskServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(server.URL, "p", "d", "k")
	_, err := client.Ask(context.Background(), "question")

	var svcErr *qa.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, http.StatusForbidden, svcErr.Status)
}

func TestAskNetworkError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "p", "d", "k")
	_, err := client.Ask(context.Background(), "question")
	assert.Error(t, err)
}
