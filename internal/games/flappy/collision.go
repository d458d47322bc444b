package flappy

import "github.com/vovakirdan/flapper/internal/core"

// Detector tests the player's hitbox against obstacle segments.
// Padding shrinks the player box so grazes are forgiven.
type Detector struct {
	Padding float64
}

// Check reports whether the player overlaps any segment of any obstacle.
// It stops at the first hit.
//
// Only one vertical edge matters per segment: the top segment always starts
// at the ceiling and the bottom one always reaches the floor.
func (d Detector) Check(player core.Rect, obstacles []Obstacle, width, playfieldH float64) bool {
	for _, o := range obstacles {
		if d.HitsTop(player, o.TopRect(width)) || d.HitsBottom(player, o.BottomRect(width, playfieldH)) {
			return true
		}
	}
	return false
}

// HitsTop tests the player against a segment hanging from the ceiling.
func (d Detector) HitsTop(player, seg core.Rect) bool {
	hit := player.Inset(d.Padding)
	return overlapsX(hit, seg) && hit.Top() < seg.Bottom()
}

// HitsBottom tests the player against a segment standing on the floor.
func (d Detector) HitsBottom(player, seg core.Rect) bool {
	hit := player.Inset(d.Padding)
	return overlapsX(hit, seg) && hit.Bottom() > seg.Top()
}

func overlapsX(hit, seg core.Rect) bool {
	return hit.Right() > seg.Left() && hit.Left() < seg.Right()
}
