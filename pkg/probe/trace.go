package probe

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/benoit-pereira-da-silva/textpipe/pkg/textual"
)

// EventKind names a traced hook point.
type EventKind string

const (
	EventAttach     EventKind = "attach"
	EventEnter      EventKind = "enter"
	EventBeforeLine EventKind = "before_line"
	EventAfterLine  EventKind = "after_line"
	EventFault      EventKind = "fault"
)

// Event is one traced hook call.
type Event struct {
	Kind  EventKind
	Stage string
	Line  int
	Err   error
}

// Trace records every hook call of the stages it is installed on, and logs
// them at trace level.
type Trace struct {
	log    zerolog.Logger
	mu     sync.Mutex
	events []Event
}

func NewTrace(log zerolog.Logger) *Trace {
	return &Trace{log: log}
}

// Hooks returns the recording hooks. Install them before any failing hook so
// that the line is recorded before the fault.
func (t *Trace) Hooks() textual.Hooks {
	return textual.Hooks{
		OnAttach: func(s *textual.Stage) { t.add(Event{Kind: EventAttach, Stage: s.Name()}) },
		OnEnter: func(s *textual.Stage) error {
			t.add(Event{Kind: EventEnter, Stage: s.Name()})
			return nil
		},
		BeforeLine: func(s *textual.Stage, n int, _ string) error {
			t.add(Event{Kind: EventBeforeLine, Stage: s.Name(), Line: n})
			return nil
		},
		AfterLine: func(s *textual.Stage, n int, _ string) error {
			t.add(Event{Kind: EventAfterLine, Stage: s.Name(), Line: n})
			return nil
		},
		OnFault: func(s *textual.Stage, err error) {
			t.add(Event{Kind: EventFault, Stage: s.Name(), Err: err})
		},
	}
}

// Events returns a copy of the recorded events.
func (t *Trace) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Event(nil), t.events...)
}

// Count returns how many events of kind were recorded for stage.
func (t *Trace) Count(stage string, kind EventKind) int {
	n := 0
	for _, e := range t.Events() {
		if e.Stage == stage && e.Kind == kind {
			n++
		}
	}
	return n
}

func (t *Trace) add(e Event) {
	t.mu.Lock()
	t.events = append(t.events, e)
	t.mu.Unlock()
	t.log.Trace().Str("event", string(e.Kind)).Str("stage", e.Stage).Int("line", e.Line).AnErr("fault", e.Err).Msg("probe")
}
