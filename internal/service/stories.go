package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mkalisz/keepsake/internal/domain"
	"github.com/mkalisz/keepsake/internal/realtime"
)

type storyRepository interface {
	Create(ctx context.Context, userID int64, title, content, storyDate string) (*domain.Story, error)
	GetByID(ctx context.Context, id int64) (*domain.Story, error)
	List(ctx context.Context) ([]*domain.Story, error)
	Update(ctx context.Context, id int64, title, content, storyDate string) error
	Delete(ctx context.Context, id int64) error
}

type StoryService struct {
	stories storyRepository
	events  eventPublisher
	logger  *slog.Logger
}

func NewStoryService(stories storyRepository, events eventPublisher, logger *slog.Logger) *StoryService {
	return &StoryService{stories: stories, events: events, logger: logger}
}

type StoryInput struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	StoryDate string `json:"storyDate"`
}

func (s *StoryService) List(ctx context.Context) ([]*domain.Story, error) {
	return s.stories.List(ctx)
}

func (s *StoryService) Create(ctx context.Context, userID int64, in StoryInput) (*domain.Story, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, ValidationError("Title and content are required")
	}
	storyDate := in.StoryDate
	if storyDate == "" {
		storyDate = time.Now().UTC().Format(time.RFC3339)
	}

	story, err := s.stories.Create(ctx, userID, title, content, storyDate)
	if err != nil {
		return nil, err
	}
	s.events.Publish(realtime.Created(realtime.KindStory, story))
	return story, nil
}

// Update deliberately publishes no event; only creates and deletes are
// broadcast for stories.
func (s *StoryService) Update(ctx context.Context, id int64, in StoryInput) error {
	return s.stories.Update(ctx, id, in.Title, in.Content, in.StoryDate)
}

func (s *StoryService) Delete(ctx context.Context, id int64) error {
	if err := s.stories.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(realtime.Deleted(realtime.KindStory, id))
	return nil
}
