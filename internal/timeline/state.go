package timeline

import (
	"golang.org/x/exp/constraints"
)

// Mode says which source currently owns the offset.
type Mode int

const (
	Automatic Mode = iota
	ManualDrag
	ProgressBarDrag
)

func (m Mode) String() string {
	switch m {
	case Automatic:
		return "automatic"
	case ManualDrag:
		return "manual_drag"
	case ProgressBarDrag:
		return "progress_bar_drag"
	}
	return "unknown"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

type State struct {
	OffsetPx  float64 `json:"offsetPx"`
	Mode      Mode    `json:"mode"`
	IsPlaying bool    `json:"isPlaying"`
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
