package railslog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/yourorg/yulelog/pkg/types"
)

var (
	decoratedLine = regexp.MustCompile(`^I, \[(.*) #(.*)\] +(.*) -- : Started (.*) "(.*)" for (.*) at (.*)$`)
	bareLine      = regexp.MustCompile(`^Started (.*) "(.*)" for (.*) at (.*)$`)
)

// ParseLine matches one log line against the request-start grammar, trying the
// decorated "I, [date #id]  LEVEL -- :" form first and the bare "Started ..."
// form second. ok is false for lines that match neither; that is not an error.
// A matched line whose datetime does not parse returns ok=true and an error
// wrapping types.ErrMalformedTimestamp.
func ParseLine(line string) (ev types.Event, ok bool, err error) {
	line = strings.TrimRight(line, "\r\n")

	var datetime string
	if m := decoratedLine.FindStringSubmatch(line); m != nil {
		ev = types.Event{
			Date:     m[1],
			PID:      m[2],
			Level:    m[3],
			Method:   m[4],
			Resource: m[5],
			Client:   m[6],
		}
		datetime = m[7]
	} else if m := bareLine.FindStringSubmatch(line); m != nil {
		ev = types.Event{
			Method:   m[1],
			Resource: m[2],
			Client:   m[3],
		}
		datetime = m[4]
	} else {
		return types.Event{}, false, nil
	}

	ts, err := types.ParseTimestamp(strings.TrimSpace(datetime))
	if err != nil {
		return types.Event{}, true, err
	}
	ev.Timestamp = ts
	return ev, true, nil
}

// Parse collects every request-start event from r. Lines that do not match,
// or match with a malformed datetime, are skipped. Lines of any length are
// read; a last line without a newline is parsed too.
func Parse(r io.Reader) ([]types.Event, error) {
	br := bufio.NewReader(r)

	events := make([]types.Event, 0)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if ev, ok, perr := ParseLine(line); ok && perr == nil {
				events = append(events, ev)
			}
		}
		if errors.Is(err, io.EOF) {
			return events, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
	}
}

// ParseFile is Parse over the file at path.
func ParseFile(path string) ([]types.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}
