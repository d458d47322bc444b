package sound

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/vovakirdan/flapper/internal/games/flappy"
)

// TestPlayerWithoutSpeaker verifies events are safe when audio was never opened.
func TestPlayerWithoutSpeaker(t *testing.T) {
	p := NewPlayer()

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("events panicked without initialization: %v", r)
		}
	}()

	p.Started()
	p.ScoreChanged(1)
	p.Ended(1, flappy.CauseCollision)
	p.Close()
}

func TestPlayerInit(t *testing.T) {
	p := NewPlayer()

	// Speaker initialization fails in environments without audio devices
	if err := p.Init(); err != nil {
		t.Logf("sound initialization failed (expected without audio): %v", err)
		return
	}
	if err := p.Init(); err != nil {
		t.Errorf("second Init should be a no-op, got %v", err)
	}
	p.ScoreChanged(1)
	p.Close()
}

// peak streams n samples and returns the largest absolute value in the first and last quarter.
func peak(t *testing.T, s beep.Streamer, n int) (head, tail float64) {
	t.Helper()
	buf := make([][2]float64, n)
	got, ok := s.Stream(buf)
	if !ok || got != n {
		t.Fatalf("Stream() = %d, %v", got, ok)
	}
	for i, smp := range buf {
		if smp[0] != smp[1] {
			t.Fatalf("sample %d is not mono: %v", i, smp)
		}
		v := math.Abs(smp[0])
		if v > 1 {
			t.Fatalf("sample %d clips: %v", i, v)
		}
		switch {
		case i < n/4:
			head = math.Max(head, v)
		case i >= 3*n/4:
			tail = math.Max(tail, v)
		}
	}
	return head, tail
}

func TestGeneratorsDecay(t *testing.T) {
	tests := []struct {
		name string
		s    beep.Streamer
		n    int
	}{
		{"blip", newBlip(sampleRate, 1320), sampleRate.N(90 * time.Millisecond)},
		{"sweep", newSweep(sampleRate, 440, 880), sampleRate.N(120 * time.Millisecond)},
		{"thud", newThud(sampleRate, 1), sampleRate.N(400 * time.Millisecond)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			head, tail := peak(t, tc.s, tc.n)
			if head == 0 {
				t.Fatal("generator is silent")
			}
			if tail >= head {
				t.Errorf("tail peak %v should be below head peak %v", tail, head)
			}
		})
	}
}
