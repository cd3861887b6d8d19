package display

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/yourorg/yulelog/internal/session"
)

const (
	clearScreen = "\x1b[2J\x1b[1;1H"
	cursorHome  = "\x1b[1;1H"
	statusCol   = "\x1b[30G"
	ageCol      = "\x1b[40G"
)

// Options configures a Terminal.
type Options struct {
	// Since hides sessions whose last event is older.
	Since time.Time
	// Plain disables every escape sequence and writes tab-separated rows.
	Plain bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Terminal redraws the certification status board on every report.
type Terminal struct {
	w    io.Writer
	opts Options
}

// NewTerminal returns a Terminal writing to w.
func NewTerminal(w io.Writer, opts Options) *Terminal {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Terminal{w: w, opts: opts}
}

// Present renders one report. Rows are most recent first.
func (t *Terminal) Present(_ context.Context, report session.Report) error {
	entries := Entries(report, t.opts.Since)
	now := t.opts.Now()

	good := 0
	for _, e := range entries {
		if e.Record.Certified() {
			good++
		}
	}

	var b strings.Builder
	if t.opts.Plain {
		fmt.Fprintf(&b, "Status of Cases: %d/%d certified with Caseflow\n", good, len(entries))
		for _, e := range entries {
			fmt.Fprintf(&b, "%s\t%s\t%s ago\n", e.Key, e.Record.Status(), Humanize(e.Record.Age(now)))
		}
		b.WriteString("\n")
	} else {
		b.WriteString(clearScreen + "\n")
		for _, e := range entries {
			b.WriteString(e.Key)
			b.WriteString(rowColor(e.Record).Sprint(statusCol + e.Record.Status()))
			fmt.Fprintf(&b, "%s%s ago\n", ageCol, Humanize(e.Record.Age(now)))
		}
		bold := color.New(color.Bold)
		bold.EnableColor()
		fmt.Fprintf(&b, "%sStatus of Cases: %s certified with Caseflow\n", cursorHome, bold.Sprintf("%d/%d", good, len(entries)))
	}

	_, err := io.WriteString(t.w, b.String())
	return err
}

// rowColor stacks attributes in flow order so the latest stage wins:
// certified green over aborted red, over generated blue, over questions yellow.
func rowColor(rec *session.Record) *color.Color {
	var attrs []color.Attribute
	if rec.Questioned() {
		attrs = append(attrs, color.FgYellow)
	}
	if rec.Generated() {
		attrs = append(attrs, color.FgBlue)
	}
	if rec.Aborted() {
		attrs = append(attrs, color.FgRed, color.Bold)
	}
	if rec.Certified() {
		attrs = append(attrs, color.FgGreen)
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c
}
