package snapshot

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yourorg/yulelog/internal/railslog"
	"github.com/yourorg/yulelog/pkg/types"
)

func TestLoadFixture(t *testing.T) {
	events, err := Load(filepath.Join("..", "..", "testdata", "snapshot.json"))
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(events))
	}
	if events[0].PID != "4242" || events[0].Level != "INFO" {
		t.Fatalf("decoration fields not loaded: %+v", events[0])
	}
	Sort(events)
	if events[0].Resource != "/caseflow/certifications/ABC123/start" {
		t.Fatalf("expected earliest event first, got %s", events[0].Resource)
	}
}

func TestWriteParsedLog(t *testing.T) {
	events, err := railslog.ParseFile(filepath.Join("..", "..", "testdata", "production.log"))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, events); err != nil {
		t.Fatal(err)
	}
	back, err := Read(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != len(events) {
		t.Fatalf("expected %d events back, got %d", len(events), len(back))
	}
	for i := range events {
		if !back[i].Timestamp.Equal(events[i].Timestamp) || back[i].Resource != events[i].Resource {
			t.Fatalf("event %d differs: %+v vs %+v", i, back[i], events[i])
		}
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Fatalf("expected empty array, got %q", buf.String())
	}
}

func TestReadBadDatetimeNamesEntry(t *testing.T) {
	in := `[{"method":"GET","resource":"/a","client":"c","datetime":"2015-12-09 10:00:00 -0600"},
	        {"method":"GET","resource":"/b","client":"c","datetime":"tuesday"}]`
	_, err := Read(strings.NewReader(in))
	if !errors.Is(err, types.ErrMalformedTimestamp) {
		t.Fatalf("expected ErrMalformedTimestamp, got %v", err)
	}
	if !strings.Contains(err.Error(), "entry 1") {
		t.Fatalf("expected entry index in error, got %v", err)
	}
}

func TestReadMalformedJSON(t *testing.T) {
	if _, err := Read(strings.NewReader(`{"not":"an array"}`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
