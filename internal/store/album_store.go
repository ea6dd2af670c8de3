package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkalisz/keepsake/internal/domain"
)

type AlbumStore struct {
	db *sql.DB
}

func NewAlbumStore(db *sql.DB) *AlbumStore {
	return &AlbumStore{db: db}
}

func (s *AlbumStore) Create(ctx context.Context, userID int64, name, description, category string) (*domain.Album, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO albums (user_id, name, description, category) VALUES (?, ?, ?, ?)
	`, userID, name, description, category)
	if err != nil {
		return nil, fmt.Errorf("failed to create album: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *AlbumStore) GetByID(ctx context.Context, id int64) (*domain.Album, error) {
	album := &domain.Album{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, description, category, created_at FROM albums WHERE id = ?
	`, id).Scan(&album.ID, &album.UserID, &album.Name, &album.Description, &album.Category, &album.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}

	return album, nil
}

func (s *AlbumStore) List(ctx context.Context) ([]*domain.Album, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, description, category, created_at FROM albums
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	defer closeRows(rows)

	var albums []*domain.Album
	for rows.Next() {
		album := &domain.Album{}
		if err := rows.Scan(&album.ID, &album.UserID, &album.Name, &album.Description, &album.Category, &album.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan album: %w", err)
		}
		albums = append(albums, album)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating albums: %w", err)
	}

	return albums, nil
}

// AddPhoto appends a photo to an album. Join rows are append-only; they are
// only ever removed together with the album.
func (s *AlbumStore) AddPhoto(ctx context.Context, albumID, photoID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO album_photos (album_id, photo_id) VALUES (?, ?)
	`, albumID, photoID)
	if err != nil {
		return fmt.Errorf("failed to add photo to album: %w", err)
	}
	return nil
}

// Delete removes the album and its join rows in one transaction, so no
// dangling album_photos row can survive the album. Idempotent for a missing
// id.
func (s *AlbumStore) Delete(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM album_photos WHERE album_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete album photos: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}
