package types

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseTimestampKeepsOffset(t *testing.T) {
	ts, err := ParseTimestamp("2015-12-09 10:00:00 -0600")
	if err != nil {
		t.Fatal(err)
	}
	_, off := ts.Zone()
	if off != -6*3600 {
		t.Fatalf("expected -0600 offset, got %d", off)
	}
	if ts.Hour() != 10 {
		t.Fatalf("expected local hour 10, got %d", ts.Hour())
	}
}

func TestParseTimestampMalformed(t *testing.T) {
	_, err := ParseTimestamp("yesterday")
	if !errors.Is(err, ErrMalformedTimestamp) {
		t.Fatalf("expected ErrMalformedTimestamp, got %v", err)
	}
}

func TestEventJSONFieldNames(t *testing.T) {
	ts, _ := ParseTimestamp("2015-12-09 10:00:00 -0600")
	b, err := json.Marshal(Event{Method: "GET", Resource: "/x", Client: "10.0.0.1", Timestamp: ts})
	if err != nil {
		t.Fatal(err)
	}
	got := string(b)
	if !strings.Contains(got, `"datetime":"2015-12-09 10:00:00 -0600"`) {
		t.Fatalf("datetime not formatted: %s", got)
	}
	if strings.Contains(got, `"id"`) || strings.Contains(got, `"level"`) {
		t.Fatalf("empty decoration fields should be omitted: %s", got)
	}
}

func TestEventUnmarshalBadDatetime(t *testing.T) {
	var e Event
	err := json.Unmarshal([]byte(`{"method":"GET","resource":"/x","client":"c","datetime":"nope"}`), &e)
	if !errors.Is(err, ErrMalformedTimestamp) {
		t.Fatalf("expected ErrMalformedTimestamp, got %v", err)
	}
}
