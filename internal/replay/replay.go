// Package replay records the inputs of a run and plays them back headlessly.
// A run is fully determined by its config, its RNG seed, the frame timestamps
// and the frames before which a jump happened.
package replay

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/games/flappy"
)

// ErrCorrupt is returned for recordings that cannot have been produced by a Recorder.
var ErrCorrupt = errors.New("corrupt recording")

// Recording is everything needed to reproduce one run.
type Recording struct {
	ID     string              `msgpack:"id"`
	Seed   int64               `msgpack:"seed"`
	Config config.FlappyConfig `msgpack:"config"`
	Start  float64             `msgpack:"start"`  // Timestamp passed to Start
	Frames []float64           `msgpack:"frames"` // Timestamp of every tick while running
	Jumps  []int               `msgpack:"jumps"`  // Jump happened before Frames[i]
}

// Recorder wraps a Session and records each run it starts.
// It reseeds the session's RNG at every start so runs replay independently.
type Recorder struct {
	mu      sync.Mutex
	session *flappy.Session
	rng     *rand.Rand
	seeds   func() int64
	rec     Recording
}

// NewRecorder builds a session for cfg. seeds supplies a fresh seed per run.
func NewRecorder(cfg config.FlappyConfig, seeds func() int64, opts ...flappy.Option) *Recorder {
	rng := rand.New(rand.NewSource(1))
	return &Recorder{
		session: flappy.NewSession(cfg, rng, opts...),
		rng:     rng,
		seeds:   seeds,
	}
}

// Session returns the wrapped session for snapshots and lifecycle queries.
// Inputs must go through the Recorder.
func (r *Recorder) Session() *flappy.Session {
	return r.session
}

// Lifecycle reports the wrapped session's state.
func (r *Recorder) Lifecycle() flappy.Lifecycle {
	return r.session.Lifecycle()
}

// Start reseeds and starts a new run.
func (r *Recorder) Start(now float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session.Lifecycle() == flappy.Running {
		return fmt.Errorf("replay: start: %w", flappy.ErrAlreadyRunning)
	}

	seed := r.seeds()
	r.rng.Seed(seed)
	r.rec = Recording{
		ID:     uuid.NewString(),
		Seed:   seed,
		Config: r.session.Config(),
		Start:  now,
	}
	return r.session.Start(now)
}

// Jump records and applies a jump. Outside a run it does nothing.
func (r *Recorder) Jump() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session.Lifecycle() != flappy.Running {
		return
	}
	n := len(r.rec.Frames)
	// Several jumps before one frame collapse to one; jump is an overwrite
	if k := len(r.rec.Jumps); k == 0 || r.rec.Jumps[k-1] != n {
		r.rec.Jumps = append(r.rec.Jumps, n)
	}
	r.session.Jump()
}

// Tick records the frame timestamp and ticks the session.
func (r *Recorder) Tick(now float64) flappy.TickResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session.Lifecycle() == flappy.Running {
		r.rec.Frames = append(r.rec.Frames, now)
	}
	return r.session.Tick(now)
}

// Recording returns a copy of the current (or last) run's recording.
func (r *Recorder) Recording() Recording {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := r.rec
	rec.Frames = append([]float64(nil), r.rec.Frames...)
	rec.Jumps = append([]int(nil), r.rec.Jumps...)
	return rec
}

// Play re-simulates a recording and returns the final snapshot.
func Play(rec Recording) (flappy.Snapshot, error) {
	if err := rec.Config.Validate(); err != nil {
		return flappy.Snapshot{}, fmt.Errorf("replay: %w: %w", ErrCorrupt, err)
	}
	for i, j := range rec.Jumps {
		if j < 0 || j >= len(rec.Frames) || (i > 0 && j <= rec.Jumps[i-1]) {
			return flappy.Snapshot{}, fmt.Errorf("replay: jump %d at frame %d: %w", i, j, ErrCorrupt)
		}
	}

	s := flappy.NewSession(rec.Config, rand.New(rand.NewSource(rec.Seed)))
	if err := s.Start(rec.Start); err != nil {
		return flappy.Snapshot{}, fmt.Errorf("replay: %w", err)
	}

	next := 0
	for i, now := range rec.Frames {
		if next < len(rec.Jumps) && rec.Jumps[next] == i {
			s.Jump()
			next++
		}
		s.Tick(now)
	}
	return s.Snapshot(), nil
}

// Encode serializes a recording with msgpack.
func Encode(rec Recording) ([]byte, error) {
	data, err := msgpack.Marshal(&rec)
	if err != nil {
		return nil, fmt.Errorf("replay: encode: %w", err)
	}
	return data, nil
}

// Decode is the inverse of Encode.
func Decode(data []byte) (Recording, error) {
	var rec Recording
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return Recording{}, fmt.Errorf("replay: decode: %w: %w", ErrCorrupt, err)
	}
	return rec, nil
}
