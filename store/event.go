package store

import (
	"time"

	"github.com/google/uuid"
)

// EventType names the kind of mutation an Event describes. The values
// double as journal command names.
type EventType string

const (
	EventAdded            EventType = "added"
	EventAddedMany        EventType = "added_many"
	EventRemoved          EventType = "removed"
	EventRemovedMany      EventType = "removed_many"
	EventClearedAll       EventType = "cleared_all"
	EventChanged          EventType = "changed"
	EventBulkAddedRemoved EventType = "bulk_added_removed"
)

// Move is one realized from→to pair inside a Changed event.
type Move[K, V any] struct {
	From Entry[K, V] `json:"from"`
	To   Entry[K, V] `json:"to"`
}

// Event is an immutable record of one logical mutation. Which fields are
// populated depends on Type:
//
//	Added              Value, Metadata
//	AddedMany          Values, Metadata
//	Removed            Value
//	RemovedMany        Values
//	ClearedAll         -
//	Changed            FromTo, Removed (displaced entries), Metadata
//	BulkAddedRemoved   Added, Removed, Metadata
//
// Events are owned by the store's log until the caller drains them.
type Event[K, V, M any] struct {
	Type      EventType     `json:"type"`
	Uuid      string        `json:"uuid"`
	Timestamp int64         `json:"timestamp"`
	Value     V             `json:"value,omitzero"`
	Values    []V           `json:"values,omitzero"`
	Added     []Entry[K, V] `json:"added,omitzero"`
	Removed   []Entry[K, V] `json:"removed,omitzero"`
	FromTo    []Move[K, V]  `json:"from_to,omitzero"`
	Metadata  M             `json:"metadata,omitzero"`
}

// NewEvent stamps a fresh event of the given type with a uuid and the
// current time. The sibling bagstore container uses it too.
func NewEvent[K, V, M any](t EventType) Event[K, V, M] {
	return Event[K, V, M]{
		Type:      t,
		Uuid:      uuid.New().String(),
		Timestamp: time.Now().UnixNano(),
	}
}
