// Package snapshot reads and writes the JSON array-of-objects form of parsed
// request events used for offline replay.
package snapshot

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/yourorg/yulelog/pkg/types"
)

// Write encodes events as one JSON array.
func Write(w io.Writer, events []types.Event) error {
	if events == nil {
		events = []types.Event{}
	}
	return json.NewEncoder(w).Encode(events)
}

// Read decodes a JSON array of events.
func Read(r io.Reader) ([]types.Event, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	events := make([]types.Event, 0, len(raw))
	for i, msg := range raw {
		var ev types.Event
		if err := json.Unmarshal(msg, &ev); err != nil {
			return nil, fmt.Errorf("snapshot entry %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Load reads the snapshot file at path.
func Load(path string) ([]types.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Sort orders events by timestamp, keeping file order for ties.
func Sort(events []types.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}
