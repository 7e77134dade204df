// Package tfserving is a classifier adapter for a TensorFlow Serving REST
// endpoint hosting the breed model. The model artifact loads on the serving
// side; this adapter tracks readiness and runs the argmax over the returned
// activation vector.
package tfserving

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/galder-dev/dogchat/internal/domain"
	"github.com/galder-dev/dogchat/internal/imaging"
)

// requestTimeout bounds every call to the model server. Inference on a single
// 224x224 tensor is fast; 30s covers cold model loads behind the endpoint.
const requestTimeout = 30 * time.Second

type Client struct {
	baseURL string
	model   string
	client  *http.Client

	// ready flips to true once and never back; the model-load transition is
	// one-directional per session.
	ready atomic.Bool
}

func NewClient(baseURL, model string) *Client {
	return &Client{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type statusResponse struct {
	ModelVersionStatus []struct {
		State string `json:"state"`
	} `json:"model_version_status"`
}

// Ready polls the model status endpoint until the serving side reports the
// model AVAILABLE. The first success latches; later calls return immediately.
func (c *Client) Ready(ctx context.Context) error {
	if c.ready.Load() {
		return nil
	}

	url := fmt.Sprintf("%s/v1/models/%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create status request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrModelNotReady, err)
	}
	defer closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: model server returned status %d", domain.ErrModelNotReady, resp.StatusCode)
	}

	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("%w: failed to decode model status: %v", domain.ErrModelNotReady, err)
	}

	for _, vs := range status.ModelVersionStatus {
		if vs.State == "AVAILABLE" {
			c.ready.Store(true)
			return nil
		}
	}
	return fmt.Errorf("%w: no model version available", domain.ErrModelNotReady)
}

// WaitReady blocks until the model is available, ctx expires, or the poll
// interval elapses maxAttempts times. Intended for startup.
func (c *Client) WaitReady(ctx context.Context, interval time.Duration, maxAttempts int) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err = c.Ready(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return err
}

func (c *Client) Classify(ctx context.Context, tensor *imaging.Tensor) (*domain.ClassificationResult, error) {
	if err := c.Ready(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(map[string]any{
		"instances": []any{nestTensor(tensor)},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal predict request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/models/%s:predict", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call model server: %w", err)
	}
	defer closeBody(resp.Body)

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("model server returned status %d: %s", resp.StatusCode, errBody)
	}

	var respBody struct {
		Predictions [][]float64 `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode predictions: %w", err)
	}
	if len(respBody.Predictions) == 0 || len(respBody.Predictions[0]) == 0 {
		return nil, fmt.Errorf("model server returned no predictions")
	}

	activations := respBody.Predictions[0]
	best := 0
	for i, v := range activations {
		if v > activations[best] {
			best = i
		}
	}
	return &domain.ClassificationResult{
		ClassIndex: best,
		Confidence: activations[best],
	}, nil
}

// nestTensor converts the flat tensor buffer into the [224][224][3] nested
// array layout the predict endpoint expects for a single instance.
func nestTensor(t *imaging.Tensor) [][][]float32 {
	rows := make([][][]float32, imaging.InputSize)
	i := 0
	for y := range rows {
		row := make([][]float32, imaging.InputSize)
		for x := range row {
			row[x] = t.Data[i : i+imaging.Channels : i+imaging.Channels]
			i += imaging.Channels
		}
		rows[y] = row
	}
	return rows
}

func closeBody(body io.Closer) {
	if err := body.Close(); err != nil {
		slog.Error("failed to close model server response body", "error", err)
	}
}
