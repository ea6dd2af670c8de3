package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mkalisz/keepsake/internal/domain"
	"github.com/mkalisz/keepsake/internal/realtime"
)

type noteRepository interface {
	Create(ctx context.Context, userID int64, title, content, category string) (*domain.Note, error)
	GetByID(ctx context.Context, id int64) (*domain.Note, error)
	List(ctx context.Context) ([]*domain.Note, error)
	Update(ctx context.Context, id int64, title, content, category string) error
	Delete(ctx context.Context, id int64) error
}

type NoteService struct {
	notes  noteRepository
	events eventPublisher
	logger *slog.Logger
}

func NewNoteService(notes noteRepository, events eventPublisher, logger *slog.Logger) *NoteService {
	return &NoteService{notes: notes, events: events, logger: logger}
}

type NoteInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

func (s *NoteService) List(ctx context.Context) ([]*domain.Note, error) {
	return s.notes.List(ctx)
}

func (s *NoteService) Create(ctx context.Context, userID int64, in NoteInput) (*domain.Note, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, ValidationError("Title and content are required")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "general"
	}

	note, err := s.notes.Create(ctx, userID, title, content, category)
	if err != nil {
		return nil, err
	}
	s.events.Publish(realtime.Created(realtime.KindNote, note))
	return note, nil
}

// Update deliberately publishes no event; only creates and deletes are
// broadcast for notes.
func (s *NoteService) Update(ctx context.Context, id int64, in NoteInput) error {
	return s.notes.Update(ctx, id, in.Title, in.Content, in.Category)
}

func (s *NoteService) Delete(ctx context.Context, id int64) error {
	if err := s.notes.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(realtime.Deleted(realtime.KindNote, id))
	return nil
}
