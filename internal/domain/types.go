package domain

import "time"

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the authenticated principal attached to a request context by
// the access gate. It carries only the claims embedded in the token, not the
// full user row.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type Photo struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Filename    string    `json:"filename"`
	PhotoDate   string    `json:"photo_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type Story struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	StoryDate string    `json:"story_date"`
	CreatedAt time.Time `json:"created_at"`
}

type Note struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Album struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

type Letter struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	Recipient  string    `json:"recipient"`
	LetterDate string    `json:"letter_date"`
	CreatedAt  time.Time `json:"created_at"`
}

// Completed is an int rather than a bool: the column is an sqlite INTEGER
// and the API exposes 0/1.
type BucketItem struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Completed   int        `json:"completed"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

type JournalEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	Plan      string    `json:"plan"`
	Journal   string    `json:"journal"`
	Photos    []string  `json:"photos"`
	CreatedAt time.Time `json:"created_at"`
}

// JournalPhoto is one attachment row for a journal entry. The binary lives
// in the blob store; only the generated filename is kept here.
type JournalPhoto struct {
	ID        int64     `json:"id"`
	JournalID int64     `json:"journal_id"`
	Filename  string    `json:"filename"`
	CreatedAt time.Time `json:"created_at"`
}
