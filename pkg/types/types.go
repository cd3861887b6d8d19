package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TimestampLayout is the datetime format of the "Started ..." request line.
const TimestampLayout = "2006-01-02 15:04:05 -0700"

// ErrMalformedTimestamp reports a datetime that does not match TimestampLayout.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// ParseTimestamp parses a request-line datetime, keeping its fixed offset.
func ParseTimestamp(s string) (time.Time, error) {
	ts, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedTimestamp, s)
	}
	return ts, nil
}

// Event is one matched request line.
type Event struct {
	Method    string
	Resource  string
	Client    string
	Timestamp time.Time

	// Set only when the line carried the "I, [date #id]  LEVEL -- :" decoration.
	Date  string
	PID   string
	Level string
}

type eventJSON struct {
	Method   string `json:"method"`
	Resource string `json:"resource"`
	Client   string `json:"client"`
	Datetime string `json:"datetime"`
	Date     string `json:"date,omitempty"`
	PID      string `json:"id,omitempty"`
	Level    string `json:"level,omitempty"`
}

// MarshalJSON writes the snapshot interchange form with a formatted datetime.
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{
		Method:   e.Method,
		Resource: e.Resource,
		Client:   e.Client,
		Datetime: e.Timestamp.Format(TimestampLayout),
		Date:     e.Date,
		PID:      e.PID,
		Level:    e.Level,
	})
}

// UnmarshalJSON reads the snapshot interchange form.
func (e *Event) UnmarshalJSON(data []byte) error {
	var raw eventJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ts, err := ParseTimestamp(raw.Datetime)
	if err != nil {
		return err
	}
	*e = Event{
		Method:    raw.Method,
		Resource:  raw.Resource,
		Client:    raw.Client,
		Timestamp: ts,
		Date:      raw.Date,
		PID:       raw.PID,
		Level:     raw.Level,
	}
	return nil
}

// Import records one archive import run.
type Import struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	EventCount int       `json:"event_count"`
	CreatedAt  time.Time `json:"created_at"`
}
