// Package azureqa asks questions against an Azure Language question-answering
// project. The subscription key stays server-side; browsers only ever talk to
// this service.
package azureqa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/galder-dev/dogchat/internal/domain"
	"github.com/galder-dev/dogchat/internal/qa"
)

const apiVersion = "2021-10-01"

// requestTimeout bounds every QA call; no retries are attempted.
const requestTimeout = 30 * time.Second

type Client struct {
	endpoint   string
	project    string
	deployment string
	key        string
	client     *http.Client
}

func NewClient(endpoint, project, deployment, key string) *Client {
	return &Client{
		endpoint:   endpoint,
		project:    project,
		deployment: deployment,
		key:        key,
		client:     &http.Client{Timeout: requestTimeout},
	}
}

type answerSpanRequest struct {
	Enable                   bool    `json:"enable"`
	TopAnswersWithSpan       int     `json:"topAnswersWithSpan"`
	ConfidenceScoreThreshold float64 `json:"confidenceScoreThreshold"`
}

type askRequest struct {
	Top                        int               `json:"top"`
	Question                   string            `json:"question"`
	IncludeUnstructuredSources bool              `json:"includeUnstructuredSources"`
	ConfidenceScoreThreshold   float64           `json:"confidenceScoreThreshold"`
	AnswerSpanRequest          answerSpanRequest `json:"answerSpanRequest"`
}

type askResponse struct {
	Answers []struct {
		Answer          string  `json:"answer"`
		ConfidenceScore float64 `json:"confidenceScore"`
	} `json:"answers"`
}

func (c *Client) queryURL() string {
	q := url.Values{}
	q.Set("projectName", c.project)
	q.Set("api-version", apiVersion)
	q.Set("deploymentName", c.deployment)
	return c.endpoint + "/language/:query-knowledgebases?" + q.Encode()
}

func (c *Client) Ask(ctx context.Context, question string) (*domain.AnswerResult, error) {
	body := askRequest{
		Top:                        qa.TopAnswers,
		Question:                   question,
		IncludeUnstructuredSources: true,
		ConfidenceScoreThreshold:   qa.ConfidenceThreshold,
		AnswerSpanRequest: answerSpanRequest{
			Enable:                   true,
			TopAnswersWithSpan:       qa.SpanTopAnswers,
			ConfidenceScoreThreshold: qa.SpanThreshold,
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal qa request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create qa request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.key)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call qa service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close qa response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused; the body is not part of the
		// error surface shown to users.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &qa.ServiceError{Status: resp.StatusCode}
	}

	var respBody askResponse
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return nil, fmt.Errorf("failed to decode qa response: %w", err)
	}

	if len(respBody.Answers) == 0 {
		return nil, domain.ErrEmptyAnswerSet
	}

	top := respBody.Answers[0]
	return &domain.AnswerResult{
		Answer:     top.Answer,
		Confidence: top.ConfidenceScore,
	}, nil
}
