package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mkalisz/keepsake/internal/blobstore"
	"github.com/mkalisz/keepsake/internal/domain"
	"github.com/mkalisz/keepsake/internal/realtime"
)

// MaxJournalPhotos caps the attachments accepted on one entry.
const MaxJournalPhotos = 5

type journalRepository interface {
	Create(ctx context.Context, userID int64, title, date, plan, journal string) (*domain.JournalEntry, error)
	GetByID(ctx context.Context, id int64) (*domain.JournalEntry, error)
	List(ctx context.Context) ([]*domain.JournalEntry, error)
	AddPhoto(ctx context.Context, journalID int64, filename string) error
	ListPhotos(ctx context.Context, journalID int64) ([]*domain.JournalPhoto, error)
	Update(ctx context.Context, id int64, title, date, plan, journal string) error
	Delete(ctx context.Context, id int64) error
}

type JournalService struct {
	entries journalRepository
	blobs   blobstore.Store
	events  eventPublisher
	logger  *slog.Logger
}

func NewJournalService(entries journalRepository, blobs blobstore.Store, events eventPublisher, logger *slog.Logger) *JournalService {
	return &JournalService{entries: entries, blobs: blobs, events: events, logger: logger}
}

type JournalInput struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Plan    string `json:"plan"`
	Journal string `json:"journal"`
}

func (s *JournalService) List(ctx context.Context) ([]*domain.JournalEntry, error) {
	return s.entries.List(ctx)
}

// Create persists the entry, stores each attachment and records its
// generated filename, then broadcasts the entry with its attachment list.
func (s *JournalService) Create(ctx context.Context, userID int64, in JournalInput, photos []Upload) (*domain.JournalEntry, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ValidationError("Title is required")
	}
	if len(photos) > MaxJournalPhotos {
		return nil, ValidationError("Too many photos")
	}
	for _, p := range photos {
		if _, err := imageExt(p.Name); err != nil {
			return nil, err
		}
	}
	date := in.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	entry, err := s.entries.Create(ctx, userID, title, date, in.Plan, in.Journal)
	if err != nil {
		return nil, err
	}

	filenames := make([]string, 0, len(photos))
	for _, p := range photos {
		ext, _ := imageExt(p.Name)
		filename, err := s.blobs.Save(ctx, "journal", ext, p.Data)
		if err != nil {
			s.logger.Error("failed to store journal photo", "entry_id", entry.ID, "error", err)
			continue
		}
		if err := s.entries.AddPhoto(ctx, entry.ID, filename); err != nil {
			s.logger.Error("failed to record journal photo", "entry_id", entry.ID, "error", err)
			continue
		}
		filenames = append(filenames, filename)
	}
	entry.Photos = filenames

	s.events.Publish(realtime.Created(realtime.KindJournalEntry, entry))
	return entry, nil
}

// Get returns the entry and its attachment rows.
func (s *JournalService) Get(ctx context.Context, id int64) (*domain.JournalEntry, []*domain.JournalPhoto, error) {
	entry, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if entry == nil {
		return nil, nil, ErrNotFound
	}

	photos, err := s.entries.ListPhotos(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return entry, photos, nil
}

func (s *JournalService) Update(ctx context.Context, id int64, in JournalInput) error {
	if err := s.entries.Update(ctx, id, in.Title, in.Date, in.Plan, in.Journal); err != nil {
		return err
	}
	s.events.Publish(realtime.Updated(realtime.KindJournalEntry, id))
	return nil
}

func (s *JournalService) Delete(ctx context.Context, id int64) error {
	if err := s.entries.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(realtime.Deleted(realtime.KindJournalEntry, id))
	return nil
}
