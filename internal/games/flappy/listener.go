package flappy

// Listener receives lifecycle and score events from a Session.
// Calls happen on the goroutine that called Start or Tick, after the
// session lock is released, so a listener may read the session.
type Listener interface {
	Started()
	ScoreChanged(score int)
	Ended(finalScore int, cause EndCause)
}

// ListenerFuncs adapts plain functions to a Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnStarted      func()
	OnScoreChanged func(score int)
	OnEnded        func(finalScore int, cause EndCause)
}

func (f ListenerFuncs) Started() {
	if f.OnStarted != nil {
		f.OnStarted()
	}
}

func (f ListenerFuncs) ScoreChanged(score int) {
	if f.OnScoreChanged != nil {
		f.OnScoreChanged(score)
	}
}

func (f ListenerFuncs) Ended(finalScore int, cause EndCause) {
	if f.OnEnded != nil {
		f.OnEnded(finalScore, cause)
	}
}

// MultiListener fans events out to several listeners in order.
type MultiListener []Listener

func (m MultiListener) Started() {
	for _, l := range m {
		l.Started()
	}
}

func (m MultiListener) ScoreChanged(score int) {
	for _, l := range m {
		l.ScoreChanged(score)
	}
}

func (m MultiListener) Ended(finalScore int, cause EndCause) {
	for _, l := range m {
		l.Ended(finalScore, cause)
	}
}

type eventKind int

const (
	eventStarted eventKind = iota
	eventScore
	eventEnded
)

// event is queued under the session lock and delivered after it is released.
type event struct {
	kind  eventKind
	score int
	cause EndCause
}

func (e event) deliver(l Listener) {
	switch e.kind {
	case eventStarted:
		l.Started()
	case eventScore:
		l.ScoreChanged(e.score)
	case eventEnded:
		l.Ended(e.score, e.cause)
	}
}
