package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mkalisz/keepsake/internal/domain"
	"github.com/mkalisz/keepsake/internal/realtime"
)

type bucketRepository interface {
	Create(ctx context.Context, userID int64, title, description, category string) (*domain.BucketItem, error)
	GetByID(ctx context.Context, id int64) (*domain.BucketItem, error)
	List(ctx context.Context) ([]*domain.BucketItem, error)
	Complete(ctx context.Context, id int64, now time.Time) error
	Delete(ctx context.Context, id int64) error
}

type BucketService struct {
	items  bucketRepository
	events eventPublisher
	logger *slog.Logger
	now    func() time.Time
}

func NewBucketService(items bucketRepository, events eventPublisher, logger *slog.Logger) *BucketService {
	return &BucketService{items: items, events: events, logger: logger, now: time.Now}
}

type BucketInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

func (s *BucketService) List(ctx context.Context) ([]*domain.BucketItem, error) {
	return s.items.List(ctx)
}

func (s *BucketService) Create(ctx context.Context, userID int64, in BucketInput) (*domain.BucketItem, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ValidationError("Title is required")
	}
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = "general"
	}

	item, err := s.items.Create(ctx, userID, title, in.Description, category)
	if err != nil {
		return nil, err
	}
	s.events.Publish(realtime.Created(realtime.KindBucketItem, item))
	return item, nil
}

// Complete is a one-way transition with no repeat guard: completing an
// already-completed item simply refreshes completed_at.
func (s *BucketService) Complete(ctx context.Context, id int64) error {
	if err := s.items.Complete(ctx, id, s.now()); err != nil {
		return err
	}
	s.events.Publish(realtime.Completed(realtime.KindBucketItem, id))
	return nil
}

func (s *BucketService) Delete(ctx context.Context, id int64) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(realtime.Deleted(realtime.KindBucketItem, id))
	return nil
}
