package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/galder-dev/dogchat/internal/domain"
)

type PredictionStore struct {
	db *sql.DB
}

func NewPredictionStore(db *sql.DB) *PredictionStore {
	return &PredictionStore{db: db}
}

func (s *PredictionStore) Create(ctx context.Context, question, answer string, timestamp time.Time) (*domain.PredictionLog, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO prediction_logs (question, answer, timestamp) VALUES (?, ?, ?)
	`, question, answer, timestamp.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction log: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *PredictionStore) GetByID(ctx context.Context, id int64) (*domain.PredictionLog, error) {
	rec := &domain.PredictionLog{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, question, answer, timestamp, created_at FROM prediction_logs WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Question, &rec.Answer, &rec.Timestamp, &rec.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction log: %w", err)
	}

	return rec, nil
}

// ListRecent returns up to limit logs, newest first.
func (s *PredictionStore) ListRecent(ctx context.Context, limit int) ([]*domain.PredictionLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, answer, timestamp, created_at FROM prediction_logs
		ORDER BY timestamp DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list prediction logs: %w", err)
	}
	defer rows.Close()

	var logs []*domain.PredictionLog
	for rows.Next() {
		rec := &domain.PredictionLog{}
		if err := rows.Scan(&rec.ID, &rec.Question, &rec.Answer, &rec.Timestamp, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction log: %w", err)
		}
		logs = append(logs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate prediction logs: %w", err)
	}

	return logs, nil
}
