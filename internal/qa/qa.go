// Package qa defines the contract for hosted question-answering backends.
package qa

import (
	"context"
	"fmt"

	"github.com/galder-dev/dogchat/internal/domain"
)

// Request policy applied to every question. These are fixed service-side
// tuning values, not user input.
const (
	TopAnswers          = 3
	ConfidenceThreshold = 0.5
	SpanTopAnswers      = 1
	SpanThreshold       = 0.5
)

// Answerer sends a question to a hosted QA backend and extracts the
// top-ranked answer. An empty candidate list is domain.ErrEmptyAnswerSet;
// transport-level failures are *ServiceError.
type Answerer interface {
	Ask(ctx context.Context, question string) (*domain.AnswerResult, error)
}

// ServiceError is a non-success response from the QA backend. Handlers show
// a generic apology instead of the raw status.
type ServiceError struct {
	Status int
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("qa service returned status %d", e.Status)
}
