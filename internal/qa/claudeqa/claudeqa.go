// Package claudeqa is an alternate QA backend that answers dog questions with
// the Anthropic Messages API instead of a curated knowledge base. Selected
// with QA_BACKEND=claude.
package claudeqa

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/galder-dev/dogchat/internal/domain"
	"github.com/galder-dev/dogchat/internal/qa"
)

// systemPrompt keeps answers in the same register as the knowledge-base
// backend: short, factual, dog-focused.
const systemPrompt = `You are a dog-breed assistant. The user sends either a
question about dogs or a bare breed name. For a breed name, reply with two or
three sentences describing the breed. For a question, answer it directly.
If the message is not about dogs, reply with exactly: NO_ANSWER`

type Client struct {
	client *anthropic.Client
	model  anthropic.Model
}

func NewClient(apiKey, model string, opts ...anthropic.ClientOption) *Client {
	return &Client{
		client: anthropic.NewClient(apiKey, opts...),
		model:  anthropic.Model(model),
	}
}

func (c *Client) Ask(ctx context.Context, question string) (*domain.AnswerResult, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     c.model,
		System:    systemPrompt,
		MaxTokens: 512,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(question),
		},
	})
	if err != nil {
		var reqErr *anthropic.RequestError
		if errors.As(err, &reqErr) {
			return nil, &qa.ServiceError{Status: reqErr.StatusCode}
		}
		return nil, fmt.Errorf("failed to call anthropic: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, domain.ErrEmptyAnswerSet
	}
	answer := strings.TrimSpace(resp.Content[0].GetText())
	if answer == "" || answer == "NO_ANSWER" {
		return nil, domain.ErrEmptyAnswerSet
	}

	return &domain.AnswerResult{Answer: answer, Confidence: 1}, nil
}
