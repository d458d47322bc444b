package flappy

import "fmt"

// Lifecycle is the session state.
type Lifecycle int

const (
	Idle    Lifecycle = iota // Before the first start, no ticking
	Running                  // Ticking and accepting jumps
	Ended                    // Stopped after a collision or bounds violation
)

// String returns the lowercase state name.
func (l Lifecycle) String() string {
	switch l {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// MarshalText lets Lifecycle appear as a string in JSON.
func (l Lifecycle) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (l *Lifecycle) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*l = Idle
	case "running":
		*l = Running
	case "ended":
		*l = Ended
	default:
		return fmt.Errorf("flappy: unknown lifecycle %q", text)
	}
	return nil
}

// EndCause tells why a run ended. Front ends may ignore it.
type EndCause int

const (
	CauseNone      EndCause = iota
	CauseBounds             // Left the playfield through the ceiling or floor
	CauseCollision          // Hit an obstacle segment
)

// String returns the lowercase cause name.
func (c EndCause) String() string {
	switch c {
	case CauseNone:
		return "none"
	case CauseBounds:
		return "bounds"
	case CauseCollision:
		return "collision"
	default:
		return "unknown"
	}
}

// MarshalText lets EndCause appear as a string in JSON.
func (c EndCause) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (c *EndCause) UnmarshalText(text []byte) error {
	*c = ParseEndCause(string(text))
	return nil
}

// ParseEndCause is the inverse of EndCause.String.
func ParseEndCause(s string) EndCause {
	switch s {
	case "bounds":
		return CauseBounds
	case "collision":
		return CauseCollision
	default:
		return CauseNone
	}
}

// PlayerSnapshot is what a renderer needs to draw the player.
type PlayerSnapshot struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	RotationHint float64 `json:"rotation"`
}

// ObstacleSnapshot is enough to draw both segments of one obstacle.
type ObstacleSnapshot struct {
	X         float64 `json:"x"`
	GapTop    float64 `json:"gapTop"`
	GapHeight float64 `json:"gapHeight"`
}

// Snapshot is a read-only copy of the session for presentation.
type Snapshot struct {
	Lifecycle     Lifecycle          `json:"lifecycle"`
	Score         int                `json:"score"`
	Cause         EndCause           `json:"cause"`
	Tick          int                `json:"tick"`
	Player        PlayerSnapshot     `json:"player"`
	Obstacles     []ObstacleSnapshot `json:"obstacles"`
	ObstacleWidth float64            `json:"obstacleWidth"`
	PlayfieldW    float64            `json:"playfieldWidth"`
	PlayfieldH    float64            `json:"playfieldHeight"`
}
