package flappy

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"github.com/vovakirdan/flapper/internal/config"
)

// frameMs is one frame at 60 Hz.
const frameMs = 1000.0 / 60

type recordedEvent struct {
	kind  string
	score int
	cause EndCause
}

func recordingListener(events *[]recordedEvent) Listener {
	return ListenerFuncs{
		OnStarted: func() { *events = append(*events, recordedEvent{kind: "started"}) },
		OnScoreChanged: func(score int) {
			*events = append(*events, recordedEvent{kind: "score", score: score})
		},
		OnEnded: func(score int, cause EndCause) {
			*events = append(*events, recordedEvent{kind: "ended", score: score, cause: cause})
		},
	}
}

func newTestSession(opts ...Option) *Session {
	return NewSession(config.DefaultFlappyConfig(), fixedRand(0.5), opts...)
}

func TestSessionStartsIdle(t *testing.T) {
	s := newTestSession()

	if s.Lifecycle() != Idle {
		t.Fatalf("new session lifecycle = %v, expected idle", s.Lifecycle())
	}

	// Ticks and jumps before start are no-ops
	s.Jump()
	res := s.Tick(100)
	if res.Lifecycle != Idle || s.Ticks() != 0 {
		t.Errorf("tick in idle should do nothing, got %+v", res)
	}
	if s.body.Velocity != 0 {
		t.Errorf("jump in idle should not change velocity, got %v", s.body.Velocity)
	}
}

func TestSessionStartResetsState(t *testing.T) {
	s := newTestSession()
	if err := s.Start(1000); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}

	snap := s.Snapshot()
	if snap.Lifecycle != Running {
		t.Errorf("lifecycle = %v, expected running", snap.Lifecycle)
	}
	if snap.Player.Y != 300 {
		t.Errorf("player should start centered at 300, got %v", snap.Player.Y)
	}
	if s.body.Velocity != 0 || snap.Score != 0 || len(snap.Obstacles) != 0 {
		t.Errorf("start should zero velocity, score and obstacles: %+v", snap)
	}
	if s.lastSpawn != 1000 {
		t.Errorf("spawn clock origin = %v, expected 1000", s.lastSpawn)
	}
}

func TestSessionStartWhileRunning(t *testing.T) {
	s := newTestSession()
	if err := s.Start(0); err != nil {
		t.Fatal(err)
	}

	err := s.Start(10)
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestSessionGravityScenario(t *testing.T) {
	s := newTestSession()
	s.Start(0)

	for i := 1; i <= 4; i++ {
		s.Tick(float64(i) * frameMs)
	}

	if s.body.Velocity != 2.0 {
		t.Errorf("velocity = %v, expected 2.0", s.body.Velocity)
	}
	if s.body.Y != 305 {
		t.Errorf("position = %v, expected 305", s.body.Y)
	}
}

func TestSessionJumpIsOverwrite(t *testing.T) {
	s := newTestSession()
	s.Start(0)
	s.body.Velocity = 3.0

	s.Jump()
	s.Jump()
	s.Jump()

	if s.body.Velocity != -8.0 {
		t.Errorf("velocity after jumps = %v, expected -8.0", s.body.Velocity)
	}

	s.Tick(frameMs)
	if s.body.Velocity != -7.5 {
		t.Errorf("velocity after one tick = %v, expected -7.5", s.body.Velocity)
	}
}

func TestSessionScoresPassedObstacle(t *testing.T) {
	var events []recordedEvent
	s := newTestSession(WithListener(recordingListener(&events)))
	s.Start(0)
	s.stream.obstacles = append(s.stream.obstacles, Obstacle{X: 2, GapTop: 200, GapHeight: 180})

	res := s.Tick(frameMs)
	if res.Passed != 1 || res.Score != 1 || res.Lifecycle != Running {
		t.Fatalf("tick result = %+v, expected one pass while running", res)
	}

	s.Tick(2 * frameMs)
	if s.Score() != 1 {
		t.Errorf("score = %d, expected the obstacle to count once", s.Score())
	}

	want := []recordedEvent{{kind: "started"}, {kind: "score", score: 1}}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %+v, expected %+v", events, want)
	}
}

func TestSessionCollisionEnds(t *testing.T) {
	var events []recordedEvent
	s := newTestSession(WithListener(recordingListener(&events)))
	s.Start(0)
	// Bottom segment starts at y=100, far above the player's feet
	s.stream.obstacles = append(s.stream.obstacles, Obstacle{X: 40, GapTop: 0, GapHeight: 100})

	res := s.Tick(frameMs)
	if res.Lifecycle != Ended || res.Cause != CauseCollision {
		t.Fatalf("tick result = %+v, expected collision end", res)
	}

	last := events[len(events)-1]
	if last.kind != "ended" || last.cause != CauseCollision || last.score != 0 {
		t.Errorf("last event = %+v, expected ended(0, collision)", last)
	}

	// Frozen: further ticks and jumps do nothing
	ticks := s.Ticks()
	s.Jump()
	s.Tick(2 * frameMs)
	if s.Ticks() != ticks || s.Lifecycle() != Ended {
		t.Error("ended session must not tick")
	}
}

func TestSessionBoundsEndsBeforeScoring(t *testing.T) {
	s := newTestSession()
	s.Start(0)
	s.body.Y = 590
	s.body.Velocity = 10
	s.stream.obstacles = append(s.stream.obstacles, Obstacle{X: 2, GapTop: 200, GapHeight: 180})

	res := s.Tick(frameMs)
	if res.Lifecycle != Ended || res.Cause != CauseBounds {
		t.Fatalf("tick result = %+v, expected bounds end", res)
	}
	if s.Score() != 0 {
		t.Errorf("score = %d, no scoring after the run ended", s.Score())
	}
	if s.Snapshot().Cause != CauseBounds {
		t.Error("snapshot should carry the end cause")
	}
}

func TestSessionCeilingEnds(t *testing.T) {
	s := newTestSession()
	s.Start(0)
	s.body.Y = 2
	s.Jump()

	if res := s.Tick(frameMs); res.Cause != CauseBounds {
		t.Errorf("flying through the ceiling should end the run, got %+v", res)
	}
}

func TestSessionRestartRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 10, 200} {
		s := NewSession(config.DefaultFlappyConfig(), rand.New(rand.NewSource(int64(n))))
		s.Start(0)

		for i := 1; i <= n && s.Lifecycle() == Running; i++ {
			if i%20 == 0 {
				s.Jump()
			}
			s.Tick(float64(i) * frameMs)
		}
		// Force the end if the run survived
		s.body.Y = -100
		s.Tick(float64(n+1) * frameMs)
		if s.Lifecycle() != Ended {
			t.Fatalf("n=%d: session should have ended", n)
		}

		if err := s.Restart(float64(n+2) * frameMs); err != nil {
			t.Fatalf("n=%d: Restart() failed: %v", n, err)
		}
		snap := s.Snapshot()
		if snap.Score != 0 || len(snap.Obstacles) != 0 || snap.Lifecycle != Running {
			t.Errorf("n=%d: restart should reset score and obstacles, got %+v", n, snap)
		}
		if snap.Cause != CauseNone || snap.Tick != 0 {
			t.Errorf("n=%d: restart should clear cause and ticks", n)
		}
	}
}

func TestSessionScoreMonotonic(t *testing.T) {
	s := NewSession(config.DefaultFlappyConfig(), rand.New(rand.NewSource(99)))
	s.Start(0)

	prev := 0
	for i := 1; i <= 5000 && s.Lifecycle() == Running; i++ {
		// Hold the body near the middle so the run lasts
		if s.body.Y > 310 {
			s.Jump()
		}
		res := s.Tick(float64(i) * frameMs)
		if res.Score < prev {
			t.Fatalf("score decreased from %d to %d", prev, res.Score)
		}
		if res.Score-prev != res.Passed {
			t.Fatalf("score grew by %d but %d obstacles passed", res.Score-prev, res.Passed)
		}
		prev = res.Score
	}
}

func TestSessionDeterminism(t *testing.T) {
	run := func() Snapshot {
		s := NewSession(config.DefaultFlappyConfig(), rand.New(rand.NewSource(12345)))
		s.Start(0)
		for i := 1; i <= 600 && s.Lifecycle() == Running; i++ {
			if i%15 == 0 {
				s.Jump()
			}
			s.Tick(float64(i) * frameMs)
		}
		return s.Snapshot()
	}

	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Errorf("same seed and inputs produced different snapshots:\n%+v\n%+v", a, b)
	}
}

func TestSnapshotCopiesObstacles(t *testing.T) {
	s := newTestSession()
	s.Start(0)
	s.Tick(1600)

	snap := s.Snapshot()
	if len(snap.Obstacles) != 1 {
		t.Fatalf("expected one spawned obstacle, got %d", len(snap.Obstacles))
	}
	snap.Obstacles[0].X = -1000
	if s.stream.Obstacles()[0].X == -1000 {
		t.Error("snapshot must not alias live obstacles")
	}
	if snap.PlayfieldW != 400 || snap.PlayfieldH != 600 || snap.ObstacleWidth != 50 {
		t.Errorf("snapshot geometry = %vx%v width %v", snap.PlayfieldW, snap.PlayfieldH, snap.ObstacleWidth)
	}
}

func TestLifecycleStrings(t *testing.T) {
	if Running.String() != "running" || CauseCollision.String() != "collision" {
		t.Error("unexpected string forms")
	}
	if ParseEndCause("bounds") != CauseBounds || ParseEndCause("?") != CauseNone {
		t.Error("ParseEndCause mismatch")
	}
}
