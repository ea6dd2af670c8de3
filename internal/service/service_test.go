package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkalisz/keepsake/internal/db"
	"github.com/mkalisz/keepsake/internal/realtime"
	"github.com/mkalisz/keepsake/internal/store"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	events []realtime.Event
}

func (p *recordingPublisher) Publish(ev realtime.Event) {
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) names() []string {
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Name())
	}
	return out
}

// stubBlobStore is a minimal in-memory blobstore.Store for tests.
type stubBlobStore struct {
	saved   map[string][]byte
	counter int
	saveErr error
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{saved: make(map[string][]byte)}
}

func (s *stubBlobStore) Save(_ context.Context, prefix, ext string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, _ := io.ReadAll(r)
	s.counter++
	filename := fmt.Sprintf("%s-%d%s", prefix, s.counter, ext)
	s.saved[filename] = data
	return filename, nil
}

func (s *stubBlobStore) Open(_ context.Context, filename string) (io.ReadCloser, string, error) {
	data, ok := s.saved[filename]
	if !ok {
		return nil, "", errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), "image/jpeg", nil
}

func (s *stubBlobStore) Delete(_ context.Context, filename string) error {
	delete(s.saved, filename)
	return nil
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared&_foreign_keys=on",
		strings.ReplaceAll(t.Name(), "/", "_"))
	d, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, d.Close()) })
	require.NoError(t, db.Migrate(d))
	return d
}

func createTestUserID(t *testing.T, d *sql.DB) int64 {
	t.Helper()
	user, err := store.NewUserStore(d).Create(context.Background(), "alex", "hash", "Alex")
	require.NoError(t, err)
	return user.ID
}

func TestNoteCreatePublishesRecord(t *testing.T) {
	d := openTestDB(t)
	userID := createTestUserID(t, d)
	pub := &recordingPublisher{}
	svc := NewNoteService(store.NewNoteStore(d), pub, slog.Default())
	ctx := context.Background()

	note, err := svc.Create(ctx, userID, NoteInput{Title: "T", Content: "C"})
	require.NoError(t, err)
	assert.Equal(t, "general", note.Category)

	require.Equal(t, []string{"note-created"}, pub.names())
	assert.Same(t, note, pub.events[0].Record)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, note.ID, list[0].ID)
}

func TestNoteCreateValidation(t *testing.T) {
	d := openTestDB(t)
	userID := createTestUserID(t, d)
	pub := &recordingPublisher{}
	svc := NewNoteService(store.NewNoteStore(d), pub, slog.Default())

	var verr ValidationError
	_, err := svc.Create(context.Background(), userID, NoteInput{Title: "   ", Content: "C"})
	require.ErrorAs(t, err, &verr)
	_, err = svc.Create(context.Background(), userID, NoteInput{Title: "T", Content: ""})
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, pub.events)
}

func TestNoteUpdatePublishesNothing(t *testing.T) {
	d := openTestDB(t)
	userID := createTestUserID(t, d)
	pub := &recordingPublisher{}
	svc := NewNoteService(store.NewNoteStore(d), pub, slog.Default())
	ctx := context.Background()

	note, err := svc.Create(ctx, userID, NoteInput{Title: "T", Content: "C"})
	require.NoError(t, err)
	pub.events = nil

	require.NoError(t, svc.Update(ctx, note.ID, NoteInput{Title: "T2", Content: "C2", Category: "x"}))
	assert.Empty(t, pub.events)
}

func TestNoteDeletePublishesID(t *testing.T) {
	d := openTestDB(t)
	userID := createTestUserID(t, d)
	pub := &recordingPublisher{}
	svc := NewNoteService(store.NewNoteStore(d), pub, slog.Default())
	ctx := context.Background()

	note, err := svc.Create(ctx, userID, NoteInput{Title: "T", Content: "C"})
	require.NoError(t, err)
	pub.events = nil

	require.NoError(t, svc.Delete(ctx, note.ID))
	// Deleting again still succeeds, and still broadcasts.
	require.NoError(t, svc.Delete(ctx, note.ID))

	require.Equal(t, []string{"note-deleted", "note-deleted"}, pub.names())
	assert.Equal(t, note.ID, pub.events[0].ID)
	assert.Nil(t, pub.events[0].Record)
}

func TestStoryUpdatePublishesNothing(t *testing.T) {
	d := openTestDB(t)
	userID := createTestUserID(t, d)
	pub := &recordingPublisher{}
	svc := NewStoryService(store.NewStoryStore(d), pub, slog.Default())
	ctx := context.Background()

	story, err := svc.Create(ctx, userID, StoryInput{Title: "T", Content: "C"})
	require.NoError(t, err)
	pub.events = nil

	require.NoError(t, svc.Update(ctx, story.ID, StoryInput{Title: "T2", Content: "C2"}))
	assert.Empty(t, pub.events)
}

func TestLetterUpdatePublishesID(t *testing.T) {
	d := openTestDB(t)
	userID := createTestUserID(t, d)
	pub := &recordingPublisher{}
	svc := NewLetterService(store.NewLetterStore(d), pub, slog.Default())
	ctx := context.Background()

	letter, err := svc.Create(ctx, userID, LetterInput{Title: "T", Content: "C"})
	require.NoError(t, err)
	assert.Equal(t, "general", letter.Type)
	pub.events = nil

	require.NoError(t, svc.Update(ctx, letter.ID, LetterInput{Title: "T2", Content: "C2", Type: "general"}))
	require.Equal(t, []string{"letter-updated"}, pub.names())
	assert.Equal(t, letter.ID, pub.events[0].ID)
}

func TestBucketCompletePublishes(t *testing.T) {
	d := openTestDB(t)
	userID := createTestUserID(t, d)
	pub := &recordingPublisher{}
	svc := NewBucketService(store.NewBucketStore(d), pub, slog.Default())
	ctx := context.Background()

	item, err := svc.Create(ctx, userID, BucketInput{Title: "Travel"})
	require.NoError(t, err)

	require.NoError(t, svc.Complete(ctx, item.ID))
	require.Equal(t, []string{"bucket-item-created", "bucket-item-completed"}, pub.names())

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].Completed)
	assert.NotNil(t, list[0].CompletedAt)
}

func TestGalleryUploadAndDelete(t *testing.T) {
	d := openTestDB(t)
	userID := createTestUserID(t, d)
	pub := &recordingPublisher{}
	blobs := newStubBlobStore()
	svc := NewGalleryService(store.NewPhotoStore(d), blobs, pub, slog.Default())
	ctx := context.Background()

	photo, err := svc.Upload(ctx, userID, PhotoInput{Title: "Beach"},
		Upload{Name: "IMG_1234.JPG", Data: strings.NewReader("jpeg-bytes")})
	require.NoError(t, err)
	assert.Equal(t, "Beach", photo.Title)
	assert.True(t, strings.HasSuffix(photo.Filename, ".jpg"))
	assert.Contains(t, blobs.saved, photo.Filename)

	require.Equal(t, []string{"photo-uploaded"}, pub.names())
	pub.events = nil

	require.NoError(t, svc.Delete(ctx, photo.ID))
	assert.NotContains(t, blobs.saved, photo.Filename)
	require.Equal(t, []string{"photo-deleted"}, pub.names())

	// Unknown id is a 404-style error, not a silent success.
	err = svc.Delete(ctx, photo.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGalleryUploadRejectsNonImage(t *testing.T) {
	d := openTestDB(t)
	userID := createTestUserID(t, d)
	pub := &recordingPublisher{}
	svc := NewGalleryService(store.NewPhotoStore(d), newStubBlobStore(), pub, slog.Default())

	var verr ValidationError
	_, err := svc.Upload(context.Background(), userID, PhotoInput{},
		Upload{Name: "malware.txt", Data: strings.NewReader("x")})
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, pub.events)
}

func TestAlbumAddPhotoAndGet(t *testing.T) {
	d := openTestDB(t)
	userID := createTestUserID(t, d)
	pub := &recordingPublisher{}
	photos := store.NewPhotoStore(d)
	svc := NewAlbumService(store.NewAlbumStore(d), photos, pub, slog.Default())
	ctx := context.Background()

	album, err := svc.Create(ctx, userID, AlbumInput{Name: "Trips"})
	require.NoError(t, err)
	assert.Equal(t, "other", album.Category)

	photo, err := photos.Create(ctx, userID, "Beach", "", "beach.jpg", "2024-07-01")
	require.NoError(t, err)

	require.NoError(t, svc.AddPhoto(ctx, album.ID, photo.ID))

	got, joined, err := svc.Get(ctx, album.ID)
	require.NoError(t, err)
	assert.Equal(t, album.ID, got.ID)
	require.Len(t, joined, 1)
	assert.Equal(t, photo.ID, joined[0].ID)

	require.Equal(t, []string{"album-created", "album-photo-added"}, pub.names())

	_, _, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJournalCreateWithPhotos(t *testing.T) {
	d := openTestDB(t)
	userID := createTestUserID(t, d)
	pub := &recordingPublisher{}
	blobs := newStubBlobStore()
	svc := NewJournalService(store.NewJournalStore(d), blobs, pub, slog.Default())
	ctx := context.Background()

	entry, err := svc.Create(ctx, userID, JournalInput{Title: "Weekend", Plan: "hike"},
		[]Upload{
			{Name: "a.jpg", Data: strings.NewReader("a")},
			{Name: "b.png", Data: strings.NewReader("b")},
		})
	require.NoError(t, err)
	assert.NotEmpty(t, entry.Date)
	require.Len(t, entry.Photos, 2)
	for _, filename := range entry.Photos {
		assert.Contains(t, blobs.saved, filename)
	}

	require.Equal(t, []string{"journal-entry-created"}, pub.names())

	got, photos, err := svc.Get(ctx, entry.ID)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, got.ID)
	assert.Len(t, photos, 2)
}

func TestJournalCreateTooManyPhotos(t *testing.T) {
	d := openTestDB(t)
	userID := createTestUserID(t, d)
	svc := NewJournalService(store.NewJournalStore(d), newStubBlobStore(), &recordingPublisher{}, slog.Default())

	uploads := make([]Upload, MaxJournalPhotos+1)
	for i := range uploads {
		uploads[i] = Upload{Name: "a.jpg", Data: strings.NewReader("x")}
	}

	var verr ValidationError
	_, err := svc.Create(context.Background(), userID, JournalInput{Title: "T"}, uploads)
	assert.ErrorAs(t, err, &verr)
}
