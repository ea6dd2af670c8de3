package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/mkalisz/keepsake/internal/blobstore"
	"github.com/mkalisz/keepsake/internal/domain"
	"github.com/mkalisz/keepsake/internal/realtime"
)

type photoRepository interface {
	Create(ctx context.Context, userID int64, title, description, filename, photoDate string) (*domain.Photo, error)
	GetByID(ctx context.Context, id int64) (*domain.Photo, error)
	List(ctx context.Context) ([]*domain.Photo, error)
	ListByAlbumID(ctx context.Context, albumID int64) ([]*domain.Photo, error)
	Delete(ctx context.Context, id int64) error
}

// Upload is one incoming binary attachment. Name is the client's original
// filename, used only for extension validation; the blob store assigns the
// stored name.
type Upload struct {
	Name string
	Data io.Reader
}

type GalleryService struct {
	photos photoRepository
	blobs  blobstore.Store
	events eventPublisher
	logger *slog.Logger
}

func NewGalleryService(photos photoRepository, blobs blobstore.Store, events eventPublisher, logger *slog.Logger) *GalleryService {
	return &GalleryService{photos: photos, blobs: blobs, events: events, logger: logger}
}

type PhotoInput struct {
	Title       string
	Description string
	PhotoDate   string
}

func (s *GalleryService) List(ctx context.Context) ([]*domain.Photo, error) {
	return s.photos.List(ctx)
}

// Upload stores the binary in the blob store, persists a row holding the
// generated filename, and broadcasts the new record.
func (s *GalleryService) Upload(ctx context.Context, userID int64, in PhotoInput, file Upload) (*domain.Photo, error) {
	ext, err := imageExt(file.Name)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = "Untitled"
	}
	photoDate := in.PhotoDate
	if photoDate == "" {
		photoDate = time.Now().UTC().Format(time.RFC3339)
	}

	filename, err := s.blobs.Save(ctx, "photo", ext, file.Data)
	if err != nil {
		return nil, err
	}

	photo, err := s.photos.Create(ctx, userID, title, in.Description, filename, photoDate)
	if err != nil {
		if derr := s.blobs.Delete(ctx, filename); derr != nil {
			s.logger.Error("failed to remove orphaned upload", "filename", filename, "error", derr)
		}
		return nil, err
	}

	s.events.Publish(realtime.Created(realtime.KindPhoto, photo))
	return photo, nil
}

// Delete is the one delete that distinguishes a missing row: gallery
// clients expect a 404 for an unknown photo id.
func (s *GalleryService) Delete(ctx context.Context, id int64) error {
	photo, err := s.photos.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if photo == nil {
		return ErrNotFound
	}

	if err := s.photos.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, photo.Filename); err != nil {
		s.logger.Error("failed to delete photo file", "filename", photo.Filename, "error", err)
	}

	s.events.Publish(realtime.Deleted(realtime.KindPhoto, id))
	return nil
}
