// Package tail reads an append-only file line by line: it first drains what is
// already there, then polls for new lines until the context ends.
package tail

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// DefaultInterval is the wait between empty poll passes.
const DefaultInterval = 5 * time.Second

var (
	// ErrSourceUnavailable is returned when the file cannot be opened.
	ErrSourceUnavailable = errors.New("tail source unavailable")
	// ErrTailRead is returned when reading an open file fails.
	ErrTailRead = errors.New("tail read failed")
)

// Line is one line read from the file, without its terminator.
// Bulk is true for lines read while draining the initial content. A Line with
// Bulk false is a refresh point for the caller; an empty one is either the
// end-of-drain sentinel or an idle heartbeat.
type Line struct {
	Text string
	Bulk bool
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

type phase int

const (
	phaseBulk phase = iota
	phasePoll
)

// Tailer is a two-phase line reader over a single open file handle.
type Tailer struct {
	file     *os.File
	reader   *bufio.Reader
	phase    phase
	partial  strings.Builder
	interval time.Duration
	sleep    Sleeper
	idle     bool
}

// Option configures a Tailer.
type Option func(*Tailer)

// WithInterval sets the wait between empty poll passes.
func WithInterval(d time.Duration) Option {
	return func(t *Tailer) {
		if d > 0 {
			t.interval = d
		}
	}
}

// WithSleeper replaces the poll wait, mainly for tests.
func WithSleeper(s Sleeper) Option {
	return func(t *Tailer) {
		if s != nil {
			t.sleep = s
		}
	}
}

// WithIdleRefresh makes every empty poll pass yield an empty non-bulk Line
// so the caller can redraw time-dependent output.
func WithIdleRefresh(on bool) Option {
	return func(t *Tailer) {
		t.idle = on
	}
}

// Open opens path for tailing. The handle stays open until Close.
func Open(path string, opts ...Option) (*Tailer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}
	t := &Tailer{
		file:     f,
		reader:   bufio.NewReader(f),
		interval: DefaultInterval,
		sleep:    contextSleep,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Next returns the next line. During the drain it returns every line with
// Bulk set, including an unterminated last one, then a single empty sentinel. After that it blocks,
// polling every interval, until a new complete line is appended, ctx is
// done, or a read fails.
func (t *Tailer) Next(ctx context.Context) (Line, error) {
	for {
		text, ok, err := t.readLine()
		if err != nil {
			return Line{}, err
		}
		if ok {
			return Line{Text: text, Bulk: t.phase == phaseBulk}, nil
		}

		if t.phase == phaseBulk {
			if t.partial.Len() > 0 {
				text := strings.TrimRight(t.partial.String(), "\r\n")
				t.partial.Reset()
				return Line{Text: text, Bulk: true}, nil
			}
			t.phase = phasePoll
			return Line{}, nil
		}
		if err := t.sleep(ctx, t.interval); err != nil {
			return Line{}, err
		}
		if t.idle {
			return Line{}, nil
		}
	}
}

// Draining reports whether the tailer is still reading the initial content.
func (t *Tailer) Draining() bool {
	return t.phase == phaseBulk
}

// Close releases the file handle.
func (t *Tailer) Close() error {
	return t.file.Close()
}

// readLine returns the next newline-terminated line. A trailing fragment with
// no newline yet is kept until the rest of it is written or the drain ends.
func (t *Tailer) readLine() (string, bool, error) {
	chunk, err := t.reader.ReadString('\n')
	if err != nil {
		t.partial.WriteString(chunk)
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %w", ErrTailRead, err)
	}
	line := chunk
	if t.partial.Len() > 0 {
		t.partial.WriteString(chunk)
		line = t.partial.String()
		t.partial.Reset()
	}
	return strings.TrimRight(line, "\r\n"), true, nil
}

func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
