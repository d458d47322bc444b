package replay

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/games/flappy"
)

const frameMs = 1000.0 / 60

func seedSeq(seeds ...int64) func() int64 {
	i := 0
	return func() int64 {
		s := seeds[i%len(seeds)]
		i++
		return s
	}
}

// fly plays a run that jumps whenever the body sinks below the middle.
func fly(t *testing.T, r *Recorder, start float64, maxTicks int) flappy.Snapshot {
	t.Helper()
	if err := r.Start(start); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	for i := 1; i <= maxTicks && r.Session().Lifecycle() == flappy.Running; i++ {
		if r.Session().Snapshot().Player.Y > 320 {
			r.Jump()
		}
		r.Tick(start + float64(i)*frameMs)
	}
	return r.Session().Snapshot()
}

// fall ticks without jumping until the run ends.
func fall(r *Recorder, from float64) flappy.Snapshot {
	for i := 1; r.Session().Lifecycle() == flappy.Running; i++ {
		r.Tick(from + float64(i)*frameMs)
	}
	return r.Session().Snapshot()
}

func TestPlayReproducesRun(t *testing.T) {
	r := NewRecorder(config.DefaultFlappyConfig(), seedSeq(42))
	live := fly(t, r, 0, 3000)

	rec := r.Recording()
	if rec.Seed != 42 || rec.ID == "" {
		t.Fatalf("recording header = %q seed %d", rec.ID, rec.Seed)
	}
	if len(rec.Frames) != live.Tick {
		t.Errorf("recorded %d frames, session ticked %d times", len(rec.Frames), live.Tick)
	}

	replayed, err := Play(rec)
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if !reflect.DeepEqual(live, replayed) {
		t.Errorf("replay diverged:\nlive     %+v\nreplayed %+v", live, replayed)
	}
}

func TestRecorderReseedsEveryRun(t *testing.T) {
	r := NewRecorder(config.DefaultFlappyConfig(), seedSeq(1, 2))

	fly(t, r, 0, 400)
	fall(r, 400*frameMs)
	first := r.Recording()

	fly(t, r, 10000, 400)
	second := fall(r, 10000+400*frameMs)
	rec := r.Recording()
	if rec.Seed != 2 || rec.ID == first.ID {
		t.Fatalf("second run should get a new id and seed, got %q seed %d", rec.ID, rec.Seed)
	}

	replayed, err := Play(rec)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(second, replayed) {
		t.Error("second run replay diverged")
	}
}

func TestRecorderStartWhileRunning(t *testing.T) {
	r := NewRecorder(config.DefaultFlappyConfig(), seedSeq(1))
	if err := r.Start(0); err != nil {
		t.Fatal(err)
	}
	if err := r.Start(1); !errors.Is(err, flappy.ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestRecorderIgnoresInputOutsideRun(t *testing.T) {
	r := NewRecorder(config.DefaultFlappyConfig(), seedSeq(1))
	r.Jump()
	r.Tick(100)

	rec := r.Recording()
	if len(rec.Frames) != 0 || len(rec.Jumps) != 0 {
		t.Errorf("idle input was recorded: %+v", rec)
	}
}

func TestRecorderCollapsesRepeatedJumps(t *testing.T) {
	r := NewRecorder(config.DefaultFlappyConfig(), seedSeq(1))
	r.Start(0)
	r.Jump()
	r.Jump()
	r.Tick(frameMs)
	r.Jump()

	if got := r.Recording().Jumps; !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("jumps = %v, expected [0 1]", got)
	}
}

func TestEncodeDecode(t *testing.T) {
	r := NewRecorder(config.DefaultFlappyConfig(), seedSeq(7))
	fly(t, r, 0, 500)
	rec := r.Recording()

	data, err := Encode(rec)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}
	if got.ID != rec.ID || got.Seed != rec.Seed || got.Config != rec.Config {
		t.Errorf("header mismatch: %+v", got)
	}

	a, _ := Play(rec)
	b, _ := Play(got)
	if !reflect.DeepEqual(a, b) {
		t.Error("decoded recording replays differently")
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode([]byte{0xc1, 0x00}); !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestPlayRejectsBadJumps(t *testing.T) {
	base := Recording{Config: config.DefaultFlappyConfig(), Frames: []float64{1, 2, 3}}

	tests := []struct {
		name  string
		jumps []int
	}{
		{"past the end", []int{3}},
		{"negative", []int{-1}},
		{"out of order", []int{2, 1}},
		{"duplicate", []int{1, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := base
			rec.Jumps = tc.jumps
			if _, err := Play(rec); !errors.Is(err, ErrCorrupt) {
				t.Errorf("expected ErrCorrupt, got %v", err)
			}
		})
	}
}

func TestPlayRejectsInvalidConfig(t *testing.T) {
	rec := Recording{Config: config.FlappyConfig{}}
	if _, err := Play(rec); !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}
