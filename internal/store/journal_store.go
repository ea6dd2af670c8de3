package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkalisz/keepsake/internal/domain"
)

type JournalStore struct {
	db *sql.DB
}

func NewJournalStore(db *sql.DB) *JournalStore {
	return &JournalStore{db: db}
}

func (s *JournalStore) Create(ctx context.Context, userID int64, title, date, plan, journal string) (*domain.JournalEntry, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_entries (user_id, title, date, plan, journal) VALUES (?, ?, ?, ?, ?)
	`, userID, title, date, plan, journal)
	if err != nil {
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *JournalStore) GetByID(ctx context.Context, id int64) (*domain.JournalEntry, error) {
	entry := &domain.JournalEntry{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, date, plan, journal, created_at FROM journal_entries WHERE id = ?
	`, id).Scan(&entry.ID, &entry.UserID, &entry.Title, &entry.Date, &entry.Plan, &entry.Journal, &entry.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}

	return entry, nil
}

func (s *JournalStore) List(ctx context.Context) ([]*domain.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, date, plan, journal, created_at FROM journal_entries
		ORDER BY date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer closeRows(rows)

	var entries []*domain.JournalEntry
	for rows.Next() {
		entry := &domain.JournalEntry{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Title, &entry.Date, &entry.Plan, &entry.Journal, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal entries: %w", err)
	}

	return entries, nil
}

// AddPhoto appends an attachment filename to an entry. Attachment rows are
// append-only; they are only ever removed together with the entry.
func (s *JournalStore) AddPhoto(ctx context.Context, journalID int64, filename string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journal_photos (journal_id, filename) VALUES (?, ?)
	`, journalID, filename)
	if err != nil {
		return fmt.Errorf("failed to add journal photo: %w", err)
	}
	return nil
}

func (s *JournalStore) ListPhotos(ctx context.Context, journalID int64) ([]*domain.JournalPhoto, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, journal_id, filename, created_at FROM journal_photos WHERE journal_id = ?
	`, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal photos: %w", err)
	}
	defer closeRows(rows)

	var photos []*domain.JournalPhoto
	for rows.Next() {
		photo := &domain.JournalPhoto{}
		if err := rows.Scan(&photo.ID, &photo.JournalID, &photo.Filename, &photo.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal photo: %w", err)
		}
		photos = append(photos, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal photos: %w", err)
	}

	return photos, nil
}

func (s *JournalStore) Update(ctx context.Context, id int64, title, date, plan, journal string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE journal_entries SET title = ?, date = ?, plan = ?, journal = ? WHERE id = ?
	`, title, date, plan, journal, id)
	if err != nil {
		return fmt.Errorf("failed to update journal entry: %w", err)
	}
	return nil
}

// Delete removes the entry and its attachment rows in one transaction, so no
// dangling journal_photos row can survive the entry. Idempotent for a
// missing id.
func (s *JournalStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM journal_photos WHERE journal_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete journal photos: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}
