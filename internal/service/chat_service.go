package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/galder-dev/dogchat/internal/classifier"
	"github.com/galder-dev/dogchat/internal/domain"
	"github.com/galder-dev/dogchat/internal/imaging"
	"github.com/galder-dev/dogchat/internal/labels"
	"github.com/galder-dev/dogchat/internal/photostore"
	"github.com/galder-dev/dogchat/internal/qa"
	"github.com/galder-dev/dogchat/internal/sink"
)

// User-visible bot messages. The raw service failure never reaches the
// transcript.
const (
	NoAnswerMessage = "Lo siento, no tengo una respuesta para eso."
	ApologyMessage  = "Lo siento, algo salió mal. Inténtalo de nuevo."
)

// predictionRepository is the subset of store.PredictionStore that
// ChatService requires.
type predictionRepository interface {
	Create(ctx context.Context, question, answer string, timestamp time.Time) (*domain.PredictionLog, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.PredictionLog, error)
}

// breedRepository is the subset of store.BreedStore that ChatService requires.
type breedRepository interface {
	Create(ctx context.Context, breed string, timestamp time.Time) (*domain.BreedSubmission, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.BreedSubmission, error)
}

// ChatResult is the outcome of one question flow. Exactly one bot entry is
// produced per question: the answer, the fixed no-answer message, or the
// fixed apology when the QA service fails.
type ChatResult struct {
	UserEntry domain.TranscriptEntry
	BotEntry  domain.TranscriptEntry
	Answered  bool
	Failed    bool
}

// ImageChatResult is the outcome of one image flow.
type ImageChatResult struct {
	ChatResult
	Label      string
	Confidence float64
}

// ChatService orchestrates both chat flows: free-text questions and dog-photo
// uploads. Within one flow the steps run strictly in order; across flows only
// transcript appends are serialized.
type ChatService struct {
	transcript  *Transcript
	classifier  classifier.Classifier
	labels      *labels.Table
	answerer    qa.Answerer
	photoStg    photostore.PhotoStore
	logSink     sink.Sink
	predictions predictionRepository
	breeds      breedRepository
	logger      *slog.Logger
}

func NewChatService(
	clf classifier.Classifier,
	table *labels.Table,
	answerer qa.Answerer,
	photoStg photostore.PhotoStore,
	logSink sink.Sink,
	predictions predictionRepository,
	breeds breedRepository,
	logger *slog.Logger,
) *ChatService {
	return &ChatService{
		transcript:  NewTranscript(),
		classifier:  clf,
		labels:      table,
		answerer:    answerer,
		photoStg:    photoStg,
		logSink:     logSink,
		predictions: predictions,
		breeds:      breeds,
		logger:      logger,
	}
}

// Ready reports whether the classifier model is loaded. Question flows do not
// depend on the model and work regardless.
func (s *ChatService) Ready(ctx context.Context) error {
	return s.classifier.Ready(ctx)
}

// Transcript returns the conversation history in insertion order.
func (s *ChatService) Transcript() []domain.TranscriptEntry {
	return s.transcript.Entries()
}

// AskQuestion runs the text flow: append the user entry, ask the QA backend,
// append exactly one bot entry, then log the pair best-effort.
func (s *ChatService) AskQuestion(ctx context.Context, question string) (*ChatResult, error) {
	if question == "" {
		return nil, fmt.Errorf("question must not be empty")
	}

	userEntry := s.transcript.AppendText(domain.SenderUser, question)
	result := s.askAndAppend(ctx, question)
	result.UserEntry = userEntry
	return result, nil
}

// SubmitImage runs the image flow: decode, preprocess, classify, map the
// label, store the photo, then reuse the question flow with the label as the
// synthesized question text.
func (s *ChatService) SubmitImage(ctx context.Context, imageData []byte, mimeType string) (*ImageChatResult, error) {
	img, err := imaging.Decode(imageData)
	if err != nil {
		return nil, err
	}

	tensor, err := imaging.Preprocess(img)
	if err != nil {
		return nil, err
	}

	classified, err := s.classifier.Classify(ctx, tensor)
	if err != nil {
		return nil, fmt.Errorf("failed to classify image: %w", err)
	}

	label, err := s.labels.Lookup(classified.ClassIndex)
	if err != nil {
		return nil, err
	}
	s.logger.Info("image classified",
		"class_index", classified.ClassIndex,
		"label", label,
		"confidence", classified.Confidence,
	)

	storageKey, err := s.photoStg.Save(ctx, "chat", mimeType, bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}

	userEntry := s.transcript.AppendImage(storageKey)

	result := s.askAndAppend(ctx, label)
	result.UserEntry = userEntry
	return &ImageChatResult{
		ChatResult: *result,
		Label:      label,
		Confidence: classified.Confidence,
	}, nil
}

// askAndAppend is the shared tail of both flows: one QA call, one bot entry,
// one best-effort log on success. The QA call never starts before the
// preceding append returned, and the bot entry is appended only after the
// call resolves.
func (s *ChatService) askAndAppend(ctx context.Context, question string) *ChatResult {
	answer, err := s.answerer.Ask(ctx, question)
	switch {
	case errors.Is(err, domain.ErrEmptyAnswerSet):
		s.logger.Info("qa returned no answers", "question", question)
		return &ChatResult{BotEntry: s.transcript.AppendText(domain.SenderBot, NoAnswerMessage)}
	case err != nil:
		s.logger.Error("qa call failed", "question", question, "error", err)
		return &ChatResult{
			BotEntry: s.transcript.AppendText(domain.SenderBot, ApologyMessage),
			Failed:   true,
		}
	}

	botEntry := s.transcript.AppendText(domain.SenderBot, answer.Answer)
	s.logSink.LogQA(ctx, question, answer.Answer, time.Now().UTC())

	return &ChatResult{BotEntry: botEntry, Answered: true}
}

// SubmitBreed records one breed-form submission. The local write is
// synchronous because the form UI acknowledges success only when it lands;
// forwarding to the log sink stays best-effort.
func (s *ChatService) SubmitBreed(ctx context.Context, breed string, timestamp time.Time) (*domain.BreedSubmission, error) {
	if breed == "" {
		return nil, fmt.Errorf("breed must not be empty")
	}
	rec, err := s.breeds.Create(ctx, breed, timestamp)
	if err != nil {
		return nil, err
	}
	s.logSink.LogBreed(ctx, breed, timestamp)
	return rec, nil
}

// ArchivePrediction persists one externally submitted question/answer pair.
func (s *ChatService) ArchivePrediction(ctx context.Context, question, answer string, timestamp time.Time) (*domain.PredictionLog, error) {
	if question == "" {
		return nil, fmt.Errorf("question must not be empty")
	}
	return s.predictions.Create(ctx, question, answer, timestamp)
}

// RecentPredictions returns up to limit logged question/answer pairs, newest
// first.
func (s *ChatService) RecentPredictions(ctx context.Context, limit int) ([]*domain.PredictionLog, error) {
	return s.predictions.ListRecent(ctx, limit)
}

// RecentBreeds returns up to limit breed submissions, newest first.
func (s *ChatService) RecentBreeds(ctx context.Context, limit int) ([]*domain.BreedSubmission, error) {
	return s.breeds.ListRecent(ctx, limit)
}
