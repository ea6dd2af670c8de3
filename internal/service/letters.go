package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mkalisz/keepsake/internal/domain"
	"github.com/mkalisz/keepsake/internal/realtime"
)

type letterRepository interface {
	Create(ctx context.Context, userID int64, title, content, letterType, recipient, letterDate string) (*domain.Letter, error)
	GetByID(ctx context.Context, id int64) (*domain.Letter, error)
	List(ctx context.Context) ([]*domain.Letter, error)
	ListByType(ctx context.Context, letterType string) ([]*domain.Letter, error)
	Update(ctx context.Context, id int64, title, content, letterType, recipient, letterDate string) error
	Delete(ctx context.Context, id int64) error
}

type LetterService struct {
	letters letterRepository
	events  eventPublisher
	logger  *slog.Logger
}

func NewLetterService(letters letterRepository, events eventPublisher, logger *slog.Logger) *LetterService {
	return &LetterService{letters: letters, events: events, logger: logger}
}

type LetterInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Type       string `json:"type"`
	Recipient  string `json:"recipient"`
	LetterDate string `json:"letterDate"`
}

func (s *LetterService) List(ctx context.Context) ([]*domain.Letter, error) {
	return s.letters.List(ctx)
}

func (s *LetterService) ListByType(ctx context.Context, letterType string) ([]*domain.Letter, error) {
	return s.letters.ListByType(ctx, letterType)
}

func (s *LetterService) Create(ctx context.Context, userID int64, in LetterInput) (*domain.Letter, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, ValidationError("Title and content are required")
	}
	letterType := strings.TrimSpace(in.Type)
	if letterType == "" {
		letterType = "general"
	}
	letterDate := in.LetterDate
	if letterDate == "" {
		letterDate = time.Now().UTC().Format(time.RFC3339)
	}

	letter, err := s.letters.Create(ctx, userID, title, content, letterType, in.Recipient, letterDate)
	if err != nil {
		return nil, err
	}
	s.events.Publish(realtime.Created(realtime.KindLetter, letter))
	return letter, nil
}

// Update broadcasts an id-only event; letters are the one text resource
// whose edits clients follow live.
func (s *LetterService) Update(ctx context.Context, id int64, in LetterInput) error {
	if err := s.letters.Update(ctx, id, in.Title, in.Content, in.Type, in.Recipient, in.LetterDate); err != nil {
		return err
	}
	s.events.Publish(realtime.Updated(realtime.KindLetter, id))
	return nil
}

func (s *LetterService) Delete(ctx context.Context, id int64) error {
	if err := s.letters.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(realtime.Deleted(realtime.KindLetter, id))
	return nil
}
