package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mkalisz/keepsake/internal/domain"
)

type PhotoStore struct {
	db *sql.DB
}

func NewPhotoStore(db *sql.DB) *PhotoStore {
	return &PhotoStore{db: db}
}

func (s *PhotoStore) Create(ctx context.Context, userID int64, title, description, filename, photoDate string) (*domain.Photo, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO photos (user_id, title, description, filename, photo_date) VALUES (?, ?, ?, ?, ?)
	`, userID, title, description, filename, photoDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *PhotoStore) GetByID(ctx context.Context, id int64) (*domain.Photo, error) {
	photo := &domain.Photo{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, filename, photo_date, created_at FROM photos WHERE id = ?
	`, id).Scan(&photo.ID, &photo.UserID, &photo.Title, &photo.Description, &photo.Filename, &photo.PhotoDate, &photo.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}

	return photo, nil
}

func (s *PhotoStore) List(ctx context.Context) ([]*domain.Photo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, description, filename, photo_date, created_at FROM photos
		ORDER BY photo_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer closeRows(rows)

	return scanPhotos(rows)
}

// ListByAlbumID returns the photos joined into an album, most recently added
// first.
func (s *PhotoStore) ListByAlbumID(ctx context.Context, albumID int64) ([]*domain.Photo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.title, p.description, p.filename, p.photo_date, p.created_at
		FROM photos p
		JOIN album_photos ap ON p.id = ap.photo_id
		WHERE ap.album_id = ?
		ORDER BY ap.added_at DESC
	`, albumID)
	if err != nil {
		return nil, fmt.Errorf("failed to list album photos: %w", err)
	}
	defer closeRows(rows)

	return scanPhotos(rows)
}

// Delete is idempotent: deleting an id that does not exist is not an error.
func (s *PhotoStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

func scanPhotos(rows *sql.Rows) ([]*domain.Photo, error) {
	var photos []*domain.Photo
	for rows.Next() {
		photo := &domain.Photo{}
		if err := rows.Scan(&photo.ID, &photo.UserID, &photo.Title, &photo.Description, &photo.Filename, &photo.PhotoDate, &photo.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, photo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}

	return photos, nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Error("failed to close rows", "error", err)
	}
}
