package monitor

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yourorg/yulelog/internal/railslog"
	"github.com/yourorg/yulelog/internal/session"
	"github.com/yourorg/yulelog/internal/tail"
)

// Source yields raw log lines; *tail.Tailer is the production implementation.
type Source interface {
	Next(ctx context.Context) (tail.Line, error)
}

// Presenter renders a report at every refresh point.
type Presenter interface {
	Present(ctx context.Context, report session.Report) error
}

// Monitor runs the tail → parse → store → present loop on a single goroutine.
type Monitor struct {
	source    Source
	store     *session.Store
	presenter Presenter
	log       zerolog.Logger

	lines   int
	matched int
	drained bool
}

// New creates a Monitor with an empty session store.
func New(src Source, p Presenter, log zerolog.Logger) *Monitor {
	return &Monitor{
		source:    src,
		store:     session.NewStore(),
		presenter: p,
		log:       log,
	}
}

// Run processes lines until ctx is cancelled or the source fails. Every
// non-bulk line triggers a fresh snapshot for the presenter, so the first
// render already reflects the fully drained file. Cancellation is a normal
// shutdown and returns nil.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		line, err := m.source.Next(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return fmt.Errorf("monitor: %w", err)
		}
		m.Ingest(line.Text)
		if line.Bulk {
			continue
		}
		if !m.drained {
			m.drained = true
			m.log.Info().
				Int("lines", m.lines).
				Int("events", m.matched).
				Int("sessions", m.store.Len()).
				Msg("initial drain complete")
		}
		if err := m.presenter.Present(ctx, m.store.Snapshot()); err != nil {
			return fmt.Errorf("monitor present: %w", err)
		}
	}
}

// Ingest parses one raw line and records it when it is a workflow event.
// It reports whether the line ended up in a session.
func (m *Monitor) Ingest(text string) bool {
	if text == "" {
		return false
	}
	m.lines++
	ev, ok, err := railslog.ParseLine(text)
	if !ok {
		return false
	}
	if err != nil {
		m.log.Debug().Err(err).Str("line", text).Msg("dropping request line")
		return false
	}
	if !m.store.Record(ev) {
		return false
	}
	m.matched++
	return true
}

// Snapshot returns the current report.
func (m *Monitor) Snapshot() session.Report {
	return m.store.Snapshot()
}

// Stats returns the number of non-empty lines read and workflow events recorded.
func (m *Monitor) Stats() (lines, matched int) {
	return m.lines, m.matched
}
