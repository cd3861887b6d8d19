package display

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/yourorg/yulelog/internal/session"
)

// Entry is one displayed session.
type Entry struct {
	Key    string
	Record *session.Record
}

// Entries orders the report by most recent activity first and drops sessions
// whose last event is before since. A zero since keeps everything.
func Entries(report session.Report, since time.Time) []Entry {
	entries := make([]Entry, 0, report.Len())
	report.Records(func(key string, rec *session.Record) {
		if !since.IsZero() && rec.EndTime().Before(since) {
			return
		}
		entries = append(entries, Entry{Key: key, Record: rec})
	})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Record.EndTime().After(entries[j].Record.EndTime())
	})
	return entries
}

// Humanize renders an age in the coarse style of the status board.
func Humanize(d time.Duration) string {
	seconds := int64(d / time.Second)
	if seconds <= 60 {
		return "less than a minute"
	}
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	minutes %= 60
	hours %= 24
	switch {
	case days >= 1:
		return fmt.Sprintf("%d day(s), %d hour(s)", days, hours)
	case hours >= 1:
		return fmt.Sprintf("%d hour(s)", hours)
	case minutes >= 1:
		return fmt.Sprintf("%d minute(s)", minutes)
	}
	return "long ago"
}

// ResolveColor maps a color mode (auto, always, never) to a decision for f.
func ResolveColor(mode string, f *os.File) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
