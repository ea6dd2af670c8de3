package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mkalisz/keepsake/internal/domain"
)

type BucketStore struct {
	db *sql.DB
}

func NewBucketStore(db *sql.DB) *BucketStore {
	return &BucketStore{db: db}
}

func (s *BucketStore) Create(ctx context.Context, userID int64, title, description, category string) (*domain.BucketItem, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO bucket_items (user_id, title, description, category) VALUES (?, ?, ?, ?)
	`, userID, title, description, category)
	if err != nil {
		return nil, fmt.Errorf("failed to create bucket item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *BucketStore) GetByID(ctx context.Context, id int64) (*domain.BucketItem, error) {
	item := &domain.BucketItem{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, category, completed, created_at, completed_at
		FROM bucket_items WHERE id = ?
	`, id).Scan(&item.ID, &item.UserID, &item.Title, &item.Description, &item.Category, &item.Completed, &item.CreatedAt, &item.CompletedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket item: %w", err)
	}

	return item, nil
}

// List orders incomplete items before completed ones, newest first within
// each group.
func (s *BucketStore) List(ctx context.Context) ([]*domain.BucketItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, description, category, completed, created_at, completed_at
		FROM bucket_items ORDER BY completed ASC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket items: %w", err)
	}
	defer closeRows(rows)

	var items []*domain.BucketItem
	for rows.Next() {
		item := &domain.BucketItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Description, &item.Category, &item.Completed, &item.CreatedAt, &item.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bucket item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bucket items: %w", err)
	}

	return items, nil
}

// Complete marks the item done as of now. The update is unconditional:
// completing an already-completed item overwrites completed_at with the
// newer timestamp.
func (s *BucketStore) Complete(ctx context.Context, id int64, now time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE bucket_items SET completed = 1, completed_at = ? WHERE id = ?
	`, now.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to complete bucket item: %w", err)
	}
	return nil
}

// Delete is idempotent: deleting an id that does not exist is not an error.
func (s *BucketStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM bucket_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bucket item: %w", err)
	}
	return nil
}
