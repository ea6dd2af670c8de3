package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkalisz/keepsake/internal/domain"
)

type NoteStore struct {
	db *sql.DB
}

func NewNoteStore(db *sql.DB) *NoteStore {
	return &NoteStore{db: db}
}

func (s *NoteStore) Create(ctx context.Context, userID int64, title, content, category string) (*domain.Note, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO notes (user_id, title, content, category) VALUES (?, ?, ?, ?)
	`, userID, title, content, category)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *NoteStore) GetByID(ctx context.Context, id int64) (*domain.Note, error) {
	note := &domain.Note{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, content, category, created_at, updated_at FROM notes WHERE id = ?
	`, id).Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.Category, &note.CreatedAt, &note.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}

	return note, nil
}

func (s *NoteStore) List(ctx context.Context) ([]*domain.Note, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, content, category, created_at, updated_at FROM notes
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer closeRows(rows)

	var notes []*domain.Note
	for rows.Next() {
		note := &domain.Note{}
		if err := rows.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &note.Category, &note.CreatedAt, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, nil
}

func (s *NoteStore) Update(ctx context.Context, id int64, title, content, category string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE notes SET title = ?, content = ?, category = ?, updated_at = datetime('now') WHERE id = ?
	`, title, content, category, id)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return nil
}

// Delete is idempotent: deleting an id that does not exist is not an error.
func (s *NoteStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
