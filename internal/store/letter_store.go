package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkalisz/keepsake/internal/domain"
)

type LetterStore struct {
	db *sql.DB
}

func NewLetterStore(db *sql.DB) *LetterStore {
	return &LetterStore{db: db}
}

func (s *LetterStore) Create(ctx context.Context, userID int64, title, content, letterType, recipient, letterDate string) (*domain.Letter, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO letters (user_id, title, content, type, recipient, letter_date) VALUES (?, ?, ?, ?, ?, ?)
	`, userID, title, content, letterType, recipient, letterDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create letter: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *LetterStore) GetByID(ctx context.Context, id int64) (*domain.Letter, error) {
	letter := &domain.Letter{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, content, type, recipient, letter_date, created_at FROM letters WHERE id = ?
	`, id).Scan(&letter.ID, &letter.UserID, &letter.Title, &letter.Content, &letter.Type, &letter.Recipient, &letter.LetterDate, &letter.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get letter: %w", err)
	}

	return letter, nil
}

func (s *LetterStore) List(ctx context.Context) ([]*domain.Letter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, content, type, recipient, letter_date, created_at FROM letters
		ORDER BY letter_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list letters: %w", err)
	}
	defer closeRows(rows)

	return scanLetters(rows)
}

func (s *LetterStore) ListByType(ctx context.Context, letterType string) ([]*domain.Letter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, content, type, recipient, letter_date, created_at FROM letters
		WHERE type = ? ORDER BY letter_date DESC
	`, letterType)
	if err != nil {
		return nil, fmt.Errorf("failed to list letters by type: %w", err)
	}
	defer closeRows(rows)

	return scanLetters(rows)
}

func (s *LetterStore) Update(ctx context.Context, id int64, title, content, letterType, recipient, letterDate string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE letters SET title = ?, content = ?, type = ?, recipient = ?, letter_date = ? WHERE id = ?
	`, title, content, letterType, recipient, letterDate, id)
	if err != nil {
		return fmt.Errorf("failed to update letter: %w", err)
	}
	return nil
}

// Delete is idempotent: deleting an id that does not exist is not an error.
func (s *LetterStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM letters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete letter: %w", err)
	}
	return nil
}

func scanLetters(rows *sql.Rows) ([]*domain.Letter, error) {
	var letters []*domain.Letter
	for rows.Next() {
		letter := &domain.Letter{}
		if err := rows.Scan(&letter.ID, &letter.UserID, &letter.Title, &letter.Content, &letter.Type, &letter.Recipient, &letter.LetterDate, &letter.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan letter: %w", err)
		}
		letters = append(letters, letter)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating letters: %w", err)
	}

	return letters, nil
}
