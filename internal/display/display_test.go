package display

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/yourorg/yulelog/internal/session"
	"github.com/yourorg/yulelog/pkg/types"
)

var zone = time.FixedZone("", -6*3600)

func at(minute int) time.Time {
	return time.Date(2015, 12, 9, 10, minute, 0, 0, zone)
}

func testReport() session.Report {
	s := session.NewStore()
	add := func(key, action string, minute int) {
		s.Record(types.Event{Method: "GET", Resource: "/caseflow/certifications/" + key + "/" + action, Client: "c", Timestamp: at(minute)})
	}
	add("OLD", "start", 0)
	add("DONE", "start", 1)
	add("DONE", "questions", 2)
	add("DONE", "certify", 30)
	add("FAIL", "start", 5)
	add("FAIL", "error", 10)
	return s.Snapshot()
}

func TestEntriesSortedByEndTime(t *testing.T) {
	entries := Entries(testReport(), time.Time{})
	var keys []string
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	if strings.Join(keys, ",") != "DONE,FAIL,OLD" {
		t.Fatalf("unexpected order %v", keys)
	}
}

func TestEntriesSince(t *testing.T) {
	entries := Entries(testReport(), at(10))
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries at or after cutoff, got %d", len(entries))
	}
	for _, e := range entries {
		if e.Key == "OLD" {
			t.Fatalf("OLD should be filtered")
		}
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "less than a minute"},
		{-time.Hour, "less than a minute"},
		{60 * time.Second, "less than a minute"},
		{61 * time.Second, "1 minute(s)"},
		{59 * time.Minute, "59 minute(s)"},
		{3*time.Hour + 20*time.Minute, "3 hour(s)"},
		{49 * time.Hour, "2 day(s), 1 hour(s)"},
	}
	for _, tt := range tests {
		if got := Humanize(tt.in); got != tt.want {
			t.Errorf("Humanize(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveColor(t *testing.T) {
	if !ResolveColor("always", nil) {
		t.Fatalf("always should enable color")
	}
	if ResolveColor("never", nil) {
		t.Fatalf("never should disable color")
	}
	if ResolveColor("auto", nil) {
		t.Fatalf("auto without a file should disable color")
	}
}

func TestTerminalPlain(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, Options{Plain: true, Now: func() time.Time { return at(40) }})
	if err := term.Present(context.Background(), testReport()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("plain output contains escapes: %q", out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "Status of Cases: 1/3 certified with Caseflow" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "DONE\tSQC\t10 minute(s) ago" {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if lines[2] != "FAIL\tSA\t30 minute(s) ago" {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestTerminalEscapes(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, Options{Since: at(5), Now: func() time.Time { return at(40) }})
	if err := term.Present(context.Background(), testReport()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, clearScreen) {
		t.Fatalf("expected clear-screen prefix: %q", out)
	}
	if strings.Contains(out, "OLD") {
		t.Fatalf("since filter not applied: %q", out)
	}
	if !strings.Contains(out, statusCol) || !strings.Contains(out, ageCol+"10 minute(s) ago") {
		t.Fatalf("expected column positioning: %q", out)
	}
	if !strings.Contains(out, "32m"+statusCol+"SQC") {
		t.Fatalf("expected certified row in green: %q", out)
	}
	if !strings.Contains(out, "Status of Cases: ") || !strings.Contains(out, "1/2") {
		t.Fatalf("expected header with counts: %q", out)
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(&buf, testReport(), true, false); err != nil {
		t.Fatal(err)
	}
	want := "  OLD\tS\n    start\n" +
		"  DONE\tSQC\n    start\n    questions\n    certify\n" +
		"  FAIL\tSA\n    start\n    error\n" +
		"1/3 certified\n"
	if buf.String() != want {
		t.Fatalf("unexpected summary:\n%s\nwant:\n%s", buf.String(), want)
	}
}
