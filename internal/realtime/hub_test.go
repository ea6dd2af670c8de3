package realtime

import (
	"log/slog"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestPublishReachesAllSubscribers(t *testing.T) {
	hub := NewHub(testLogger())
	t.Cleanup(hub.Close)

	a := hub.Subscribe()
	b := hub.Subscribe()

	hub.Publish(Deleted(KindNote, 7))

	for _, sub := range []*Subscriber{a, b} {
		ev := <-sub.Events()
		assert.Equal(t, "note-deleted", ev.Name())
		assert.Equal(t, int64(7), ev.ID)
	}
}

func TestPublishAfterUnsubscribe(t *testing.T) {
	hub := NewHub(testLogger())
	t.Cleanup(hub.Close)

	sub := hub.Subscribe()
	hub.Unsubscribe(sub)

	// Channel is closed on unsubscribe.
	_, open := <-sub.Events()
	assert.False(t, open)

	hub.Publish(Created(KindNote, map[string]any{"id": 1}))
	assert.Zero(t, hub.SubscriberCount())
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	hub := NewHub(testLogger())
	t.Cleanup(hub.Close)

	sub := hub.Subscribe()
	// Never drained: fill the buffer and then some.
	for i := 0; i < subscriberBuffer+10; i++ {
		hub.Publish(Deleted(KindStory, int64(i)))
	}

	assert.Equal(t, uint64(10), hub.Dropped())
	// The buffered events are still there.
	ev := <-sub.Events()
	assert.Equal(t, int64(0), ev.ID)
}

func TestConcurrentSubscribeUnsubscribePublish(t *testing.T) {
	hub := NewHub(testLogger())
	t.Cleanup(hub.Close)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sub := hub.Subscribe()
				hub.Publish(Deleted(KindLetter, int64(j)))
				hub.Unsubscribe(sub)
			}
		}()
	}
	wg.Wait()
	assert.Zero(t, hub.SubscriberCount())
}

func TestSubscribeAfterClose(t *testing.T) {
	hub := NewHub(testLogger())
	hub.Close()

	sub := hub.Subscribe()
	_, open := <-sub.Events()
	assert.False(t, open)
}

func TestEventWireShape(t *testing.T) {
	note := map[string]any{"id": 3, "title": "T"}
	data, err := json.Marshal(Created(KindNote, note))
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"note-created","data":{"id":3,"title":"T"}}`, string(data))

	data, err = json.Marshal(Deleted(KindBucketItem, 9))
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"bucket-item-deleted","data":{"id":9}}`, string(data))

	data, err = json.Marshal(Completed(KindBucketItem, 9))
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"bucket-item-completed","data":{"id":9}}`, string(data))
}

func TestPhotoCreatedEventName(t *testing.T) {
	assert.Equal(t, "photo-uploaded", Created(KindPhoto, nil).Name())
	assert.Equal(t, "photo-deleted", Deleted(KindPhoto, 1).Name())
	assert.Equal(t, "album-photo-added", Added(KindAlbumPhoto, nil).Name())
	assert.Equal(t, "journal-entry-updated", Updated(KindJournalEntry, 1).Name())
}
