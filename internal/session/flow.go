package session

import (
	"slices"
	"strings"
	"time"

	"github.com/yourorg/yulelog/internal/filter"
	"github.com/yourorg/yulelog/pkg/types"
)

// Workflow actions recognised by the status predicates.
const (
	ActionStart     = "start"
	ActionQuestions = "questions"
	ActionGenerate  = "generate"
	ActionCertify   = "certify"
	ActionError     = "error"
)

// Step pairs a status letter with the predicate that sets it.
type Step struct {
	Letter string
	Name   string
	Test   func(*Record) bool
}

// Flow lists the status steps in display order. Status letters always appear
// in this order, whatever order the actions arrived in.
var Flow = []Step{
	{Letter: "S", Name: "start", Test: (*Record).Started},
	{Letter: "Q", Name: "question", Test: (*Record).Questioned},
	{Letter: "G", Name: "generated", Test: (*Record).Generated},
	{Letter: "C", Name: "certified", Test: (*Record).Certified},
	{Letter: "A", Name: "aborted", Test: (*Record).Aborted},
}

// Record is the ordered event history of one session.
type Record struct {
	events []types.Event
}

// NewRecord builds a Record from events in arrival order.
func NewRecord(events ...types.Event) *Record {
	return &Record{events: slices.Clone(events)}
}

func (r *Record) clone() *Record {
	return &Record{events: slices.Clone(r.events)}
}

// Len returns the number of events.
func (r *Record) Len() int {
	return len(r.events)
}

// Events returns a copy of the events in arrival order.
func (r *Record) Events() []types.Event {
	return slices.Clone(r.events)
}

// Actions returns the workflow action of every classifiable event, in arrival order.
func (r *Record) Actions() []string {
	actions := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		if _, action, ok := filter.Classify(ev.Resource); ok {
			actions = append(actions, action)
		}
	}
	return actions
}

func (r *Record) has(action string) bool {
	return slices.Contains(r.Actions(), action)
}

// Started reports whether the session hit the start action.
func (r *Record) Started() bool { return r.has(ActionStart) }

// Questioned reports whether the session hit the questions action.
func (r *Record) Questioned() bool { return r.has(ActionQuestions) }

// Generated reports whether the session hit the generate action.
func (r *Record) Generated() bool { return r.has(ActionGenerate) }

// Certified reports whether the session hit the certify action.
func (r *Record) Certified() bool { return r.has(ActionCertify) }

// Aborted reports whether the session hit the error action.
func (r *Record) Aborted() bool { return r.has(ActionError) }

// Status returns the letters of every satisfied step, in Flow order.
func (r *Record) Status() string {
	var b strings.Builder
	for _, step := range Flow {
		if step.Test(r) {
			b.WriteString(step.Letter)
		}
	}
	return b.String()
}

// StartTime returns the earliest event timestamp, or the zero time if empty.
func (r *Record) StartTime() time.Time {
	var start time.Time
	for i, ev := range r.events {
		if i == 0 || ev.Timestamp.Before(start) {
			start = ev.Timestamp
		}
	}
	return start
}

// EndTime returns the latest event timestamp, or the zero time if empty.
func (r *Record) EndTime() time.Time {
	var end time.Time
	for i, ev := range r.events {
		if i == 0 || ev.Timestamp.After(end) {
			end = ev.Timestamp
		}
	}
	return end
}

// Age is the time elapsed between the last event and now.
func (r *Record) Age(now time.Time) time.Duration {
	return now.Sub(r.EndTime())
}
