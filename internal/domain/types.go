package domain

import "time"

// Sender identifies which side of the conversation produced a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// TranscriptEntry is one message in the chat transcript. User entries carry
// either Text or ImageKey, never both; bot entries always carry Text.
// Entries are immutable once appended.
type TranscriptEntry struct {
	ID        string
	Sender    Sender
	Text      string
	ImageKey  string
	CreatedAt time.Time
}

// ClassificationResult is the outcome of running the breed classifier on a
// single image. Confidence is the output activation of the winning class.
type ClassificationResult struct {
	ClassIndex int
	Label      string
	Confidence float64
}

// AnswerResult is the top-ranked answer extracted from the QA service response.
type AnswerResult struct {
	Answer     string
	Confidence float64
}

// PredictionLog is a persisted question/answer pair.
type PredictionLog struct {
	ID        int64
	Question  string
	Answer    string
	Timestamp time.Time
	CreatedAt time.Time
}

// BreedSubmission is a persisted breed-form record.
type BreedSubmission struct {
	ID        int64
	Breed     string
	Timestamp time.Time
	CreatedAt time.Time
}
