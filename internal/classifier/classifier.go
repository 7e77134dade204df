package classifier

import (
	"context"

	"github.com/galder-dev/dogchat/internal/domain"
	"github.com/galder-dev/dogchat/internal/imaging"
)

// Classifier runs the pre-trained breed model on a preprocessed tensor.
// Implementations fill ClassIndex and Confidence; label mapping happens in
// the orchestration layer.
type Classifier interface {
	// Ready reports whether the model is loaded and able to serve
	// predictions. It returns domain.ErrModelNotReady (possibly wrapped)
	// until the model is available.
	Ready(ctx context.Context) error

	// Classify runs a forward pass and returns the argmax class with its
	// activation as the confidence score. Calling Classify before the model
	// is ready fails with domain.ErrModelNotReady.
	Classify(ctx context.Context, tensor *imaging.Tensor) (*domain.ClassificationResult, error)
}
