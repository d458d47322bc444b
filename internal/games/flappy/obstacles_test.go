package flappy

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/flapper/internal/config"
)

// fixedRand always returns the same value.
type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

func newTestStream(r RandSource) *ObstacleStream {
	cfg := config.DefaultFlappyConfig()
	return NewObstacleStream(cfg.Obstacles, cfg.Playfield, r)
}

func TestMaybeSpawnRespectsInterval(t *testing.T) {
	s := newTestStream(fixedRand(0.5))
	last := 0.0

	last, spawned := s.MaybeSpawn(800, last)
	if spawned || s.Len() != 0 {
		t.Fatal("no spawn expected at t=800")
	}
	if last != 0 {
		t.Errorf("spawn clock should be unchanged, got %v", last)
	}

	last, spawned = s.MaybeSpawn(1600, last)
	if !spawned || s.Len() != 1 {
		t.Fatal("spawn expected at t=1600")
	}
	if last != 1600 {
		t.Errorf("spawn clock = %v, expected 1600", last)
	}
}

func TestMaybeSpawnExactIntervalDoesNotSpawn(t *testing.T) {
	s := newTestStream(fixedRand(0.5))
	if _, spawned := s.MaybeSpawn(1500, 0); spawned {
		t.Error("elapsed time equal to the interval should not spawn")
	}
}

func TestSpawnPlacement(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	// gapTop in [50, 600-180-50) = [50, 370)
	tests := []struct {
		name string
		r    float64
		want float64
	}{
		{"lowest", 0, 50},
		{"middle", 0.5, 210},
		{"almost one", 0.9999, 369},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStream(fixedRand(tc.r))
			s.MaybeSpawn(2000, 0)

			o := s.Obstacles()[0]
			if o.GapTop != tc.want {
				t.Errorf("GapTop = %v, expected %v", o.GapTop, tc.want)
			}
			if o.X != cfg.Playfield.Width {
				t.Errorf("X = %v, expected right edge %v", o.X, cfg.Playfield.Width)
			}
			if o.GapHeight != cfg.Obstacles.GapSize {
				t.Errorf("GapHeight = %v, expected %v", o.GapHeight, cfg.Obstacles.GapSize)
			}
			if o.Passed {
				t.Error("new obstacle should not be passed")
			}
		})
	}
}

func TestSpawnKeepsMinimumSegments(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	s := newTestStream(rand.New(rand.NewSource(7)))

	for i := 1; i <= 200; i++ {
		s.MaybeSpawn(float64(i)*2000, float64(i-1)*2000)
	}

	for _, o := range s.Obstacles() {
		if o.GapTop < cfg.Obstacles.MinSegmentHeight {
			t.Fatalf("top segment %v shorter than minimum", o.GapTop)
		}
		bottom := cfg.Playfield.Height - (o.GapTop + o.GapHeight)
		if bottom < cfg.Obstacles.MinSegmentHeight {
			t.Fatalf("bottom segment %v shorter than minimum", bottom)
		}
	}
}

func TestAdvanceScoresOnce(t *testing.T) {
	s := newTestStream(fixedRand(0.5))
	s.obstacles = append(s.obstacles, Obstacle{X: 2, GapTop: 200, GapHeight: 180})

	// 2 - 3 = -1, trailing edge 49 < 50
	if passed := s.Advance(3, 50); passed != 1 {
		t.Fatalf("first advance passed = %d, expected 1", passed)
	}
	if !s.Obstacles()[0].Passed {
		t.Error("obstacle should be marked passed")
	}
	if passed := s.Advance(3, 50); passed != 0 {
		t.Errorf("second advance passed = %d, expected 0", passed)
	}
}

func TestAdvanceTrailingEdgeMustCross(t *testing.T) {
	s := newTestStream(fixedRand(0.5))
	// After moving: X = 0, trailing edge exactly at the player
	s.obstacles = append(s.obstacles, Obstacle{X: 3})

	if passed := s.Advance(3, 50); passed != 0 {
		t.Errorf("trailing edge equal to player x should not score, got %d", passed)
	}
}

func TestAdvancePrunesPastRemovalMargin(t *testing.T) {
	s := newTestStream(fixedRand(0.5))
	// After moving by 3: -65 and -55 against a -60 margin
	s.obstacles = append(s.obstacles,
		Obstacle{X: -62, Passed: true},
		Obstacle{X: -52, Passed: true},
		Obstacle{X: 100},
	)

	s.Advance(3, 50)

	if s.Len() != 2 {
		t.Fatalf("live obstacles = %d, expected 2", s.Len())
	}
	if got := s.Obstacles()[0].X; got != -55 {
		t.Errorf("oldest survivor X = %v, expected -55", got)
	}
	if got := s.Obstacles()[1].X; got != 97 {
		t.Errorf("newest survivor X = %v, expected 97", got)
	}
}

func TestAdvancePrunesConsecutiveEntries(t *testing.T) {
	s := newTestStream(fixedRand(0.5))
	s.obstacles = append(s.obstacles,
		Obstacle{X: -70, Passed: true},
		Obstacle{X: -69, Passed: true},
		Obstacle{X: -20, Passed: true},
	)

	s.Advance(3, 50)

	if s.Len() != 1 || s.Obstacles()[0].X != -23 {
		t.Errorf("expected only the -23 obstacle to remain, got %+v", s.Obstacles())
	}
}

func TestLiveSetStaysBounded(t *testing.T) {
	cfg := config.DefaultFlappyConfig()
	s := newTestStream(rand.New(rand.NewSource(3)))

	// Travel distance before pruning / distance per spawn interval at 60 ticks/s
	last := 0.0
	maxLive := 0
	for tick := 1; tick <= 6000; tick++ {
		now := float64(tick) * 1000 / 60
		last, _ = s.MaybeSpawn(now, last)
		s.Advance(cfg.Physics.ScrollSpeed, cfg.Player.X)
		maxLive = max(maxLive, s.Len())
	}

	perSpawn := cfg.Physics.ScrollSpeed * cfg.Obstacles.SpawnIntervalMs * 60 / 1000
	bound := int((cfg.Playfield.Width-cfg.Obstacles.RemovalMargin)/perSpawn) + 1
	if maxLive > bound {
		t.Errorf("live set reached %d, bound is %d", maxLive, bound)
	}
}

func TestResetClearsObstacles(t *testing.T) {
	s := newTestStream(fixedRand(0.5))
	s.MaybeSpawn(2000, 0)
	s.Reset()

	if s.Len() != 0 {
		t.Errorf("Reset should clear obstacles, %d remain", s.Len())
	}
}
