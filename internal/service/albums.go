package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mkalisz/keepsake/internal/domain"
	"github.com/mkalisz/keepsake/internal/realtime"
)

type albumRepository interface {
	Create(ctx context.Context, userID int64, name, description, category string) (*domain.Album, error)
	GetByID(ctx context.Context, id int64) (*domain.Album, error)
	List(ctx context.Context) ([]*domain.Album, error)
	AddPhoto(ctx context.Context, albumID, photoID int64) error
	Delete(ctx context.Context, id int64) error
}

type AlbumService struct {
	albums albumRepository
	photos photoRepository
	events eventPublisher
	logger *slog.Logger
}

func NewAlbumService(albums albumRepository, photos photoRepository, events eventPublisher, logger *slog.Logger) *AlbumService {
	return &AlbumService{albums: albums, photos: photos, events: events, logger: logger}
}

type AlbumInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (s *AlbumService) List(ctx context.Context) ([]*domain.Album, error) {
	return s.albums.List(ctx)
}

func (s *AlbumService) Create(ctx context.Context, userID int64, in AlbumInput) (*domain.Album, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ValidationError("Album name is required")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "other"
	}

	album, err := s.albums.Create(ctx, userID, name, in.Description, category)
	if err != nil {
		return nil, err
	}
	s.events.Publish(realtime.Created(realtime.KindAlbum, album))
	return album, nil
}

// Get returns the album and its joined photos, most recently added first.
func (s *AlbumService) Get(ctx context.Context, id int64) (*domain.Album, []*domain.Photo, error) {
	album, err := s.albums.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if album == nil {
		return nil, nil, ErrNotFound
	}

	photos, err := s.photos.ListByAlbumID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return album, photos, nil
}

func (s *AlbumService) AddPhoto(ctx context.Context, albumID, photoID int64) error {
	if photoID == 0 {
		return ValidationError("Photo ID required")
	}
	if err := s.albums.AddPhoto(ctx, albumID, photoID); err != nil {
		return err
	}
	s.events.Publish(realtime.Added(realtime.KindAlbumPhoto, map[string]int64{
		"album_id": albumID,
		"photo_id": photoID,
	}))
	return nil
}

func (s *AlbumService) Delete(ctx context.Context, id int64) error {
	if err := s.albums.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(realtime.Deleted(realtime.KindAlbum, id))
	return nil
}
