// Package realtime carries mutation events from the services to connected
// clients: an in-process hub fans events out to websocket subscribers, and
// Bridge is the client side that mirrors them into local state.
package realtime

import (
	json "github.com/goccy/go-json"
)

type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionCompleted Action = "completed"
	ActionDeleted   Action = "deleted"
	ActionAdded     Action = "added"
)

// Resource kinds as they appear in event names.
const (
	KindPhoto        = "photo"
	KindStory        = "story"
	KindNote         = "note"
	KindAlbum        = "album"
	KindAlbumPhoto   = "album-photo"
	KindLetter       = "letter"
	KindBucketItem   = "bucket-item"
	KindJournalEntry = "journal-entry"
)

// Event is one resource mutation in normalized form. Record is set for
// record-carrying events (created, album-photo added); ID is set for
// everything else. On the wire the payload keeps the historical asymmetry:
// the full record for created events, {"id":N} otherwise.
type Event struct {
	Kind   string
	Action Action
	ID     int64
	Record any
}

// Name returns the wire event name, e.g. "note-created". Photo creation is
// named "photo-uploaded" for compatibility with existing clients.
func (e Event) Name() string {
	if e.Kind == KindPhoto && e.Action == ActionCreated {
		return "photo-uploaded"
	}
	return e.Kind + "-" + string(e.Action)
}

type wireEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	data := e.Record
	if data == nil {
		data = map[string]int64{"id": e.ID}
	}
	return json.Marshal(wireEvent{Event: e.Name(), Data: data})
}

func Created(kind string, record any) Event {
	return Event{Kind: kind, Action: ActionCreated, Record: record}
}

func Updated(kind string, id int64) Event {
	return Event{Kind: kind, Action: ActionUpdated, ID: id}
}

func Completed(kind string, id int64) Event {
	return Event{Kind: kind, Action: ActionCompleted, ID: id}
}

func Deleted(kind string, id int64) Event {
	return Event{Kind: kind, Action: ActionDeleted, ID: id}
}

func Added(kind string, record any) Event {
	return Event{Kind: kind, Action: ActionAdded, Record: record}
}
