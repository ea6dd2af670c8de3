package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mkalisz/keepsake/internal/domain"
)

type StoryStore struct {
	db *sql.DB
}

func NewStoryStore(db *sql.DB) *StoryStore {
	return &StoryStore{db: db}
}

func (s *StoryStore) Create(ctx context.Context, userID int64, title, content, storyDate string) (*domain.Story, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO stories (user_id, title, content, story_date) VALUES (?, ?, ?, ?)
	`, userID, title, content, storyDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *StoryStore) GetByID(ctx context.Context, id int64) (*domain.Story, error) {
	story := &domain.Story{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, content, story_date, created_at FROM stories WHERE id = ?
	`, id).Scan(&story.ID, &story.UserID, &story.Title, &story.Content, &story.StoryDate, &story.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get story: %w", err)
	}

	return story, nil
}

func (s *StoryStore) List(ctx context.Context) ([]*domain.Story, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, title, content, story_date, created_at FROM stories
		ORDER BY story_date DESC, created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	defer closeRows(rows)

	var stories []*domain.Story
	for rows.Next() {
		story := &domain.Story{}
		if err := rows.Scan(&story.ID, &story.UserID, &story.Title, &story.Content, &story.StoryDate, &story.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, story)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stories: %w", err)
	}

	return stories, nil
}

func (s *StoryStore) Update(ctx context.Context, id int64, title, content, storyDate string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE stories SET title = ?, content = ?, story_date = ? WHERE id = ?
	`, title, content, storyDate, id)
	if err != nil {
		return fmt.Errorf("failed to update story: %w", err)
	}
	return nil
}

// Delete is idempotent: deleting an id that does not exist is not an error.
func (s *StoryStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM stories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete story: %w", err)
	}
	return nil
}
