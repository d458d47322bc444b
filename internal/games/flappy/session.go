package flappy

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/flapper/internal/config"
)

// ErrAlreadyRunning is returned by Start and Restart while a run is in progress.
var ErrAlreadyRunning = errors.New("session already running")

// TickResult describes what one tick did.
type TickResult struct {
	Lifecycle Lifecycle
	Score     int
	Passed    int      // Obstacles passed this tick
	Spawned   bool     // Whether an obstacle was spawned this tick
	Cause     EndCause // Set on the tick that ended the run
}

// Session owns the body, the obstacle stream and the score, and drives
// them through the Idle -> Running -> Ended lifecycle.
type Session struct {
	mu sync.Mutex

	cfg       config.FlappyConfig
	body      Body
	stream    *ObstacleStream
	detector  Detector
	lifecycle Lifecycle
	score     int
	cause     EndCause
	lastSpawn float64 // Spawn clock in frame timestamp units (ms)
	ticks     int

	listener Listener
	logger   *log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for lifecycle transitions.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithListener subscribes l to session events.
func WithListener(l Listener) Option {
	return func(s *Session) {
		s.listener = l
	}
}

// NewSession creates an idle session. The config is copied and never changes afterwards.
func NewSession(cfg config.FlappyConfig, rng RandSource, opts ...Option) *Session {
	s := &Session{
		cfg:      cfg,
		body:     Body{Width: cfg.Player.Width, Height: cfg.Player.Height},
		stream:   NewObstacleStream(cfg.Obstacles, cfg.Playfield, rng),
		detector: Detector{Padding: cfg.Collision.Padding},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the constants the session was built with.
func (s *Session) Config() config.FlappyConfig {
	return s.cfg
}

// Start begins a run at frame timestamp now.
// It is valid from Idle and Ended.
func (s *Session) Start(now float64) error {
	s.mu.Lock()
	if s.lifecycle == Running {
		s.mu.Unlock()
		return fmt.Errorf("flappy: start: %w", ErrAlreadyRunning)
	}

	from := s.lifecycle
	s.score = 0
	s.cause = CauseNone
	s.ticks = 0
	s.stream.Reset()
	s.body.Y = s.cfg.Playfield.Height / 2
	s.body.Velocity = 0
	s.lastSpawn = now
	s.lifecycle = Running
	s.mu.Unlock()

	s.logger.Debug("session started", "from", from, "at", now)
	s.emit(event{kind: eventStarted})
	return nil
}

// Restart is Start; it exists so front ends can name the game-over action.
func (s *Session) Restart(now float64) error {
	return s.Start(now)
}

// Jump applies the jump impulse. Outside Running it does nothing.
// It may be called from any goroutine.
func (s *Session) Jump() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lifecycle != Running {
		return
	}
	s.body.Jump(s.cfg.Physics.JumpImpulse)
}

// Tick runs one simulation step for the frame at timestamp now.
// Outside Running it does nothing, so stray frame callbacks are harmless.
func (s *Session) Tick(now float64) TickResult {
	s.mu.Lock()
	if s.lifecycle != Running {
		res := TickResult{Lifecycle: s.lifecycle, Score: s.score}
		s.mu.Unlock()
		return res
	}

	var events []event
	res := s.step(now, &events)
	s.mu.Unlock()

	if res.Cause != CauseNone {
		s.logger.Debug("session ended", "score", res.Score, "cause", res.Cause, "ticks", s.Ticks())
	}
	for _, e := range events {
		s.emit(e)
	}
	return res
}

// step runs body, stream and collision in order. Caller holds the lock.
func (s *Session) step(now float64, events *[]event) TickResult {
	s.ticks++

	s.body.ApplyGravity(s.cfg.Physics.Gravity)
	s.body.Integrate()
	if s.body.OutOfBounds(s.cfg.Playfield.Height) {
		return s.end(CauseBounds, events)
	}

	var spawned bool
	s.lastSpawn, spawned = s.stream.MaybeSpawn(now, s.lastSpawn)

	passed := s.stream.Advance(s.cfg.Physics.ScrollSpeed, s.cfg.Player.X)
	if passed > 0 {
		s.score += passed
		*events = append(*events, event{kind: eventScore, score: s.score})
	}

	player := s.body.Box(s.cfg.Player.X)
	if s.detector.Check(player, s.stream.Obstacles(), s.cfg.Obstacles.Width, s.cfg.Playfield.Height) {
		res := s.end(CauseCollision, events)
		res.Passed = passed
		res.Spawned = spawned
		return res
	}

	return TickResult{
		Lifecycle: Running,
		Score:     s.score,
		Passed:    passed,
		Spawned:   spawned,
	}
}

// end freezes the score. Caller holds the lock.
func (s *Session) end(cause EndCause, events *[]event) TickResult {
	s.lifecycle = Ended
	s.cause = cause
	*events = append(*events, event{kind: eventEnded, score: s.score, cause: cause})
	return TickResult{Lifecycle: Ended, Score: s.score, Cause: cause}
}

func (s *Session) emit(e event) {
	if s.listener != nil {
		e.deliver(s.listener)
	}
}

// Lifecycle returns the current state.
func (s *Session) Lifecycle() Lifecycle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle
}

// Score returns the current (or final, once Ended) score.
func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// Ticks returns the number of ticks run since the last start.
func (s *Session) Ticks() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

// Snapshot copies the state a renderer needs.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.stream.Obstacles()
	obstacles := make([]ObstacleSnapshot, len(live))
	for i, o := range live {
		obstacles[i] = ObstacleSnapshot{X: o.X, GapTop: o.GapTop, GapHeight: o.GapHeight}
	}

	return Snapshot{
		Lifecycle: s.lifecycle,
		Score:     s.score,
		Cause:     s.cause,
		Tick:      s.ticks,
		Player: PlayerSnapshot{
			X:            s.cfg.Player.X,
			Y:            s.body.Y,
			Width:        s.body.Width,
			Height:       s.body.Height,
			RotationHint: s.body.RotationHint(),
		},
		Obstacles:     obstacles,
		ObstacleWidth: s.cfg.Obstacles.Width,
		PlayfieldW:    s.cfg.Playfield.Width,
		PlayfieldH:    s.cfg.Playfield.Height,
	}
}
