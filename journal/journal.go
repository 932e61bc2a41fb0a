// Package journal turns accumulated change events into line-delimited JSON
// commands, one per event, shaped like a database journal record: name,
// uuid, timestamp, payload. Where the events end up is the caller's
// business; this package only encodes to the writer it is given.
package journal

import (
	"fmt"
	"io"

	"github.com/go-json-experiment/json"

	"github.com/fulldump/ordermap/store"
)

type command[K, V, M any] struct {
	Name      string           `json:"name"`
	Uuid      string           `json:"uuid"`
	Timestamp int64            `json:"timestamp"`
	Payload   payload[K, V, M] `json:"payload"`
}

type payload[K, V, M any] struct {
	Value    V                   `json:"value,omitzero"`
	Values   []V                 `json:"values,omitzero"`
	Added    []store.Entry[K, V] `json:"added,omitzero"`
	Removed  []store.Entry[K, V] `json:"removed,omitzero"`
	FromTo   []store.Move[K, V]  `json:"from_to,omitzero"`
	Metadata M                   `json:"metadata,omitzero"`
}

// Encode writes one JSON command line per event to out, oldest first. The
// event's uuid and timestamp become the command's; everything else lands in
// the payload. Works for both store and bagstore event logs.
func Encode[K, V, M any](out io.Writer, events []store.Event[K, V, M]) error {
	for _, e := range events {
		cmd := command[K, V, M]{
			Name:      string(e.Type),
			Uuid:      e.Uuid,
			Timestamp: e.Timestamp,
			Payload: payload[K, V, M]{
				Value:    e.Value,
				Values:   e.Values,
				Added:    e.Added,
				Removed:  e.Removed,
				FromTo:   e.FromTo,
				Metadata: e.Metadata,
			},
		}
		if err := json.MarshalWrite(out, cmd); err != nil {
			return fmt.Errorf("encode %s command: %w", e.Type, err)
		}
		if _, err := io.WriteString(out, "\n"); err != nil {
			return fmt.Errorf("write command: %w", err)
		}
	}
	return nil
}
