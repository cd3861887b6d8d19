package display

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/yourorg/yulelog/internal/session"
)

// WriteSummary prints every session in order of first activity, green when
// certified and red otherwise. In verbose mode each session's actions follow
// in arrival order.
func WriteSummary(w io.Writer, report session.Report, verbose, colored bool) error {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	if colored {
		green.EnableColor()
		red.EnableColor()
	} else {
		green.DisableColor()
		red.DisableColor()
	}

	entries := Entries(report, time.Time{})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Record.StartTime().Before(entries[j].Record.StartTime())
	})

	certified := 0
	for _, e := range entries {
		c := red
		if e.Record.Certified() {
			c = green
			certified++
		}
		if _, err := fmt.Fprintf(w, "  %s\t%s\n", c.Sprint(e.Key), e.Record.Status()); err != nil {
			return err
		}
		if !verbose {
			continue
		}
		for _, action := range e.Record.Actions() {
			if _, err := fmt.Fprintf(w, "    %s\n", action); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintf(w, "%d/%d certified\n", certified, len(entries))
	return err
}
