package flappy

import (
	"math"

	"github.com/vovakirdan/flapper/internal/config"
	"github.com/vovakirdan/flapper/internal/core"
)

// RandSource is the random source used for gap placement.
// *rand.Rand satisfies it; tests inject fixed values.
type RandSource interface {
	Float64() float64
}

// Obstacle is a pipe pair sharing one horizontal position.
// The top segment spans [0, GapTop); the bottom one spans [GapTop+GapHeight, playfield bottom].
type Obstacle struct {
	X         float64 // Left edge
	GapTop    float64 // Height of the top segment
	GapHeight float64 // Vertical size of the passable gap
	Passed    bool    // Set once when the trailing edge crosses the player
}

// TopRect returns the collision rectangle for the top segment.
func (o Obstacle) TopRect(width float64) core.Rect {
	return core.NewRect(o.X, 0, width, o.GapTop)
}

// BottomRect returns the collision rectangle for the bottom segment.
func (o Obstacle) BottomRect(width, playfieldH float64) core.Rect {
	bottomY := o.GapTop + o.GapHeight
	return core.NewRect(o.X, bottomY, width, playfieldH-bottomY)
}

// ObstacleStream spawns, scrolls, scores and prunes obstacles.
// It owns the slice; insertion order is spawn order.
type ObstacleStream struct {
	obstacles []Obstacle
	rng       RandSource
	cfg       config.FlappyObstacles
	field     config.FlappyPlayfield
}

// NewObstacleStream creates an empty stream.
func NewObstacleStream(cfg config.FlappyObstacles, field config.FlappyPlayfield, rng RandSource) *ObstacleStream {
	return &ObstacleStream{
		obstacles: make([]Obstacle, 0, 8),
		rng:       rng,
		cfg:       cfg,
		field:     field,
	}
}

// Reset clears all live obstacles.
func (s *ObstacleStream) Reset() {
	s.obstacles = s.obstacles[:0]
}

// MaybeSpawn appends one obstacle at the right edge if more than the spawn
// interval has elapsed since lastSpawn. It returns the new spawn clock.
func (s *ObstacleStream) MaybeSpawn(now, lastSpawn float64) (float64, bool) {
	if now-lastSpawn <= s.cfg.SpawnIntervalMs {
		return lastSpawn, false
	}
	s.spawn()
	return now, true
}

// spawn creates a new obstacle with a random gap position.
func (s *ObstacleStream) spawn() {
	minTop := s.cfg.MinSegmentHeight
	maxTop := s.field.Height - s.cfg.GapSize - s.cfg.MinSegmentHeight

	gapTop := minTop
	if maxTop > minTop {
		gapTop = math.Floor(s.rng.Float64()*(maxTop-minTop)) + minTop
	}

	s.obstacles = append(s.obstacles, Obstacle{
		X:         s.field.Width,
		GapTop:    gapTop,
		GapHeight: s.cfg.GapSize,
	})
}

// Advance scrolls every obstacle left by speed.
// It returns how many obstacles were passed for the first time this call.
func (s *ObstacleStream) Advance(speed, playerX float64) int {
	passed := 0

	// Oldest first, compacting in place: the write index never passes the read index
	kept := s.obstacles[:0]
	for _, o := range s.obstacles {
		o.X -= speed

		if !o.Passed && o.X+s.cfg.Width < playerX {
			o.Passed = true
			passed++
		}

		if o.X < s.cfg.RemovalMargin {
			continue
		}
		kept = append(kept, o)
	}
	s.obstacles = kept

	return passed
}

// Obstacles returns the live obstacles, oldest first.
// The slice must not be modified by callers.
func (s *ObstacleStream) Obstacles() []Obstacle {
	return s.obstacles
}

// Len returns the number of live obstacles.
func (s *ObstacleStream) Len() int {
	return len(s.obstacles)
}
