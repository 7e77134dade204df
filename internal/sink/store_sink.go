package sink

import (
	"context"
	"log/slog"
	"time"

	"github.com/galder-dev/dogchat/internal/domain"
)

// logTimeout bounds each background write. The request context may already be
// done by the time the write runs, so writes use a detached context.
const logTimeout = 10 * time.Second

type predictionWriter interface {
	Create(ctx context.Context, question, answer string, timestamp time.Time) (*domain.PredictionLog, error)
}

// StoreSink persists records to the local database in the background.
type StoreSink struct {
	predictions predictionWriter
	logger      *slog.Logger
}

func NewStoreSink(predictions predictionWriter, logger *slog.Logger) *StoreSink {
	return &StoreSink{predictions: predictions, logger: logger}
}

func (s *StoreSink) LogQA(_ context.Context, question, answer string, timestamp time.Time) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), logTimeout)
		defer cancel()
		if _, err := s.predictions.Create(ctx, question, answer, timestamp); err != nil {
			s.logger.Error("failed to log qa pair", "error", err)
		}
	}()
}

// LogBreed is a no-op. Breed submissions reach the local database
// synchronously before the sink sees them; only the HTTP sink has further
// work to do with them.
func (s *StoreSink) LogBreed(context.Context, string, time.Time) {}
