package timeline

import (
	"math"

	"git.lost.host/meutraa/tutor/internal/game"
)

// EarlyExitMargin bounds how far past the target the scan keeps looking.
const EarlyExitMargin = 200.0

// Resolver snaps an arbitrary offset onto the nearest playable note.
type Resolver struct {
	notes []game.PositionedNote // x ordered
	width float64
}

func NewResolver(notes []game.PositionedNote, width float64) *Resolver {
	return &Resolver{notes: notes, width: width}
}

func (r *Resolver) Width() float64 {
	return r.width
}

// AttachToNearestNote returns the target moved exactly onto the x of the
// closest non-rest note and clamped to the song. The earlier note wins ties.
func (r *Resolver) AttachToNearestNote(targetPx float64) float64 {
	found := false
	bestOffset := 0.0
	bestDistance := math.Inf(1)

	for _, note := range r.notes {
		if note.X > targetPx+EarlyExitMargin {
			break
		}
		if note.IsRest() {
			continue
		}
		offset := note.X - targetPx
		distance := math.Abs(offset)
		if distance < bestDistance {
			bestDistance = distance
			bestOffset = offset
			found = true
		}
	}

	if !found {
		return clamp(targetPx, 0, r.width)
	}
	return clamp(targetPx+bestOffset, 0, r.width)
}
