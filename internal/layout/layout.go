// Package layout places the notes of a score on the horizontal timeline.
package layout

import (
	"git.lost.host/meutraa/tutor/internal/game"
	"git.lost.host/meutraa/tutor/internal/theme"
)

const (
	NoteSpacing      = 12.0
	MeasureBarMargin = 6.0
)

// Staff geometry, in pixels from the top of the staff container.
const (
	staffTop         = 59.0
	staffLineSpacing = 20.0
	noteHeight       = 22.0
	staffLineHeight  = 2.0
	halfStep         = (noteHeight - staffLineHeight) / 2

	RestY = 99.0
)

var noteWidths = map[game.DurationClass]float64{
	game.Eighth:        38,
	game.Quarter:       76,
	game.DottedQuarter: 114,
	game.Half:          152,
	game.Whole:         304,
}

// Treble clef positions from A3 to B5. Accidentals share the line of their natural.
var notePositions = map[string]float64{
	"A3": staffTop + 6*staffLineSpacing - halfStep,
	"B3": staffTop + 5*staffLineSpacing,
	"C4": staffTop + 5*staffLineSpacing - halfStep,
	"D4": staffTop + 4*staffLineSpacing,
	"E4": staffTop + 4*staffLineSpacing - halfStep,
	"F4": staffTop + 3*staffLineSpacing,
	"G4": staffTop + 3*staffLineSpacing - halfStep,
	"A4": staffTop + 2*staffLineSpacing,
	"B4": staffTop + 2*staffLineSpacing - halfStep,
	"C5": staffTop + 1*staffLineSpacing,
	"D5": staffTop + 1*staffLineSpacing - halfStep,
	"E5": staffTop + 0*staffLineSpacing,
	"F5": staffTop + 0*staffLineSpacing - halfStep,
	"G5": staffTop - 1*staffLineSpacing,
	"A5": staffTop - 1*staffLineSpacing - halfStep,
	"B5": staffTop - 2*staffLineSpacing,
}

// Layout is the derived placement of a score. It is never modified after Compute.
type Layout struct {
	Notes             []game.PositionedNote `json:"notes"`
	MeasureBoundaries []float64             `json:"measureBoundaries"`
	Width             float64               `json:"width"` // Total song width in pixels
}

func NoteWidth(d game.DurationClass) float64 {
	if w, ok := noteWidths[d]; ok {
		return w
	}
	return noteWidths[game.Quarter]
}

// VerticalPosition falls back to the E4 line for pitches outside the staff.
func VerticalPosition(pitch string) float64 {
	if pitch == game.Rest {
		return RestY
	}
	key := pitch
	if len(pitch) == 3 && (pitch[1] == '#' || pitch[1] == 'b') {
		key = pitch[:1] + pitch[2:]
	}
	if y, ok := notePositions[key]; ok {
		return y
	}
	return notePositions["E4"]
}

// Compute lays the score out left to right. It has no side effects, so two
// calls with the same score give equal results.
func Compute(score *game.Score, th theme.Theme) *Layout {
	l := &Layout{
		Notes:             []game.PositionedNote{},
		MeasureBoundaries: []float64{},
	}
	if nil == score || len(score.Measures) == 0 {
		return l
	}

	cursor := 0.0
	noteIndex := 0
	var last *game.PositionedNote

	for mi, measure := range score.Measures {
		l.MeasureBoundaries = append(l.MeasureBoundaries, cursor)
		if mi > 0 {
			cursor += MeasureBarMargin
		}

		for _, note := range measure.Notes {
			width := NoteWidth(note.Duration)
			l.Notes = append(l.Notes, game.PositionedNote{
				Note:         note,
				MeasureIndex: mi,
				NoteIndex:    noteIndex,
				X:            cursor,
				Y:            VerticalPosition(note.Pitch),
				Width:        width,
				Color:        th.NoteColor(note.Pitch),
			})
			last = &l.Notes[len(l.Notes)-1]
			noteIndex++
			cursor += width + NoteSpacing
		}

		if len(measure.Notes) > 0 {
			cursor += MeasureBarMargin - NoteSpacing
		}
	}

	end := cursor
	if nil != last && last.End()+MeasureBarMargin > end {
		end = last.End() + MeasureBarMargin
	}
	l.MeasureBoundaries = append(l.MeasureBoundaries, end)
	l.Width = end
	return l
}

// Pitched returns the notes that can be played, in x order.
func (l *Layout) Pitched() []game.PositionedNote {
	notes := make([]game.PositionedNote, 0, len(l.Notes))
	for _, n := range l.Notes {
		if !n.IsRest() {
			notes = append(notes, n)
		}
	}
	return notes
}

// MeasureAt returns the index of the measure containing x, or -1 outside the song.
func (l *Layout) MeasureAt(x float64) int {
	if len(l.MeasureBoundaries) < 2 || x < 0 || x > l.Width {
		return -1
	}
	for i := len(l.MeasureBoundaries) - 2; i >= 0; i-- {
		if x >= l.MeasureBoundaries[i] {
			return i
		}
	}
	return 0
}
