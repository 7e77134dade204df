package domain

import "errors"

// Domain errors shared across the pipeline. Adapters wrap transport detail
// around these; handlers match with errors.Is to pick a status code.
var (
	// ErrModelNotReady is returned when a prediction is attempted before the
	// classifier model has finished loading.
	ErrModelNotReady = errors.New("classifier model is not ready")

	// ErrInvalidImage is returned for uploads that are not a supported
	// 3-channel image format.
	ErrInvalidImage = errors.New("invalid or unsupported image")

	// ErrUnknownClass is returned when the classifier produces a class index
	// outside the label table.
	ErrUnknownClass = errors.New("class index outside label table")

	// ErrEmptyAnswerSet is returned when the QA service responds successfully
	// but with zero candidate answers.
	ErrEmptyAnswerSet = errors.New("qa service returned no answers")
)
