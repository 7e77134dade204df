package claudeqa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/galder-dev/dogchat/internal/domain"
)

func fakeAnthropic(t *testing.T, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Model  string `json:"model"`
			System string `json:"system"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Model)
		assert.NotEmpty(t, req.System)

		resp := map[string]any{
			"id":   "msg_test",
			"type": "message",
			"role": "assistant",
			"content": []map[string]any{
				{"type": "text", "text": text},
			},
			"model":       req.Model,
			"stop_reason": "end_turn",
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
}

func TestAsk(t *testing.T) {
	server := fakeAnthropic(t, "Beagles typically weigh 9-11 kg.")
	defer server.Close()

	client := NewClient("test-key", "claude-3-5-sonnet-20241022", anthropic.WithBaseURL(server.URL+"/v1"))
	result, err := client.Ask(context.Background(), "¿cuánto pesa un Beagle?")

	require.NoError(t, err)
	assert.Equal(t, "Beagles typically weigh 9-11 kg.", result.Answer)
}

func TestAskNoAnswerSentinel(t *testing.T) {
	server := fakeAnthropic(t, "NO_ANSWER")
	defer server.Close()

	client := NewClient("test-key", "claude-3-5-sonnet-20241022", anthropic.WithBaseURL(server.URL+"/v1"))
	_, err := client.Ask(context.Background(), "what is the stock market doing")

	assert.True(t, errors.Is(err, domain.ErrEmptyAnswerSet))
}

func TestAskEmptyContent(t *testing.T) {
	server := fakeAnthropic(t, "")
	defer server.Close()

	client := NewClient("test-key", "claude-3-5-sonnet-20241022", anthropic.WithBaseURL(server.URL+"/v1"))
	_, err := client.Ask(context.Background(), "anything")

	assert.True(t, errors.Is(err, domain.ErrEmptyAnswerSet))
}
