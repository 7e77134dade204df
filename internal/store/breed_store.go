package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/galder-dev/dogchat/internal/domain"
)

type BreedStore struct {
	db *sql.DB
}

func NewBreedStore(db *sql.DB) *BreedStore {
	return &BreedStore{db: db}
}

func (s *BreedStore) Create(ctx context.Context, breed string, timestamp time.Time) (*domain.BreedSubmission, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO breed_submissions (breed, timestamp) VALUES (?, ?)
	`, breed, timestamp.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create breed submission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *BreedStore) GetByID(ctx context.Context, id int64) (*domain.BreedSubmission, error) {
	rec := &domain.BreedSubmission{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, breed, timestamp, created_at FROM breed_submissions WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Breed, &rec.Timestamp, &rec.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get breed submission: %w", err)
	}

	return rec, nil
}

// ListRecent returns up to limit submissions, newest first.
func (s *BreedStore) ListRecent(ctx context.Context, limit int) ([]*domain.BreedSubmission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, breed, timestamp, created_at FROM breed_submissions
		ORDER BY timestamp DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list breed submissions: %w", err)
	}
	defer rows.Close()

	var subs []*domain.BreedSubmission
	for rows.Next() {
		rec := &domain.BreedSubmission{}
		if err := rows.Scan(&rec.ID, &rec.Breed, &rec.Timestamp, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan breed submission: %w", err)
		}
		subs = append(subs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate breed submissions: %w", err)
	}

	return subs, nil
}
