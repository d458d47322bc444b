// Package flappy implements the gravity and gap-obstacle simulation.
// The player falls under gravity and jumps through gaps in scrolling pipes.
// Everything here is headless; front ends render Snapshots.
package flappy

import "github.com/vovakirdan/flapper/internal/core"

// Rotation hint bounds in degrees
const (
	minTilt = -25.0
	maxTilt = 90.0
)

// Body is the player's vertical state.
// Only ApplyGravity and Jump change Velocity; only Integrate changes Y.
type Body struct {
	Y        float64 // Top edge, world units from the ceiling
	Velocity float64 // Positive = downward
	Width    float64
	Height   float64
}

// ApplyGravity adds a fixed per-tick acceleration.
func (b *Body) ApplyGravity(gravity float64) {
	b.Velocity += gravity
}

// Integrate moves the body by its velocity.
func (b *Body) Integrate() {
	b.Y += b.Velocity
}

// Jump replaces the velocity with the impulse. Repeated jumps do not stack.
func (b *Body) Jump(impulse float64) {
	b.Velocity = impulse
}

// OutOfBounds reports whether the body left [0, playfieldH-Height].
func (b *Body) OutOfBounds(playfieldH float64) bool {
	return b.Y < 0 || b.Y+b.Height > playfieldH
}

// RotationHint returns a cosmetic tilt in degrees derived from velocity.
func (b *Body) RotationHint() float64 {
	return core.ClampF(b.Velocity*3, minTilt, maxTilt)
}

// Box returns the body's hitbox at column x.
func (b *Body) Box(x float64) core.Rect {
	return core.NewRect(x, b.Y, b.Width, b.Height)
}
