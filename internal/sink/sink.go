// Package sink implements fire-and-forget logging of question/answer pairs
// and breed submissions. Sink failures never reach the user; they land in the
// diagnostic log only.
package sink

import (
	"context"
	"time"
)

// Sink records pipeline outcomes on a best-effort basis. Implementations must
// swallow their own errors; callers never block user-visible state on a sink.
// LogBreed receives submissions that are already persisted locally, so a sink
// only needs to act on them when it archives records elsewhere.
type Sink interface {
	LogQA(ctx context.Context, question, answer string, timestamp time.Time)
	LogBreed(ctx context.Context, breed string, timestamp time.Time)
}

// Discard is a Sink that drops everything. Useful in tests.
type Discard struct{}

func (Discard) LogQA(context.Context, string, string, time.Time) {}

func (Discard) LogBreed(context.Context, string, time.Time) {}
