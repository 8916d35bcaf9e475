package render

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"git.lost.host/meutraa/tutor/internal/engine"
	"git.lost.host/meutraa/tutor/internal/score"
	"git.lost.host/meutraa/tutor/internal/theme"
	"git.lost.host/meutraa/tutor/internal/timeline"
	"golang.org/x/term"
)

const (
	pixelsPerColumn = 8.0
	pixelsPerRow    = 10.0 // one staff half step
	staffTopY       = 19.0 // highest note position, B5
	staffTopRow     = 3
	staffRows       = 16
	statsRow        = staffTopRow + staffRows + 2
	decorationLife  = 45
)

// Staff lines, E5 down to E4
var staffLineYs = []float64{59, 79, 99, 119, 139}

type DefaultRenderer struct {
	Out   io.Writer
	Theme theme.Theme
	Cols  int
	Rows  int

	buffer       strings.Builder
	fd           int
	restoreState *term.State
	decorations  []*decoration
	lastResult   *score.Result
}

type decoration struct {
	X, Y    uint16
	Content string
	Frames  int // remaining frames until removed
}

func (r *DefaultRenderer) Init() error {
	if nil == r.Out {
		r.Out = os.Stdout
	}
	if nil == r.Theme {
		r.Theme = &theme.DefaultTheme{}
	}
	if f, ok := r.Out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.fd = int(f.Fd())
		cols, rows, err := term.GetSize(r.fd)
		if nil != err {
			return fmt.Errorf("unable to get terminal size: %w", err)
		}
		if r.Cols == 0 {
			r.Cols = cols
		}
		if r.Rows == 0 {
			r.Rows = rows
		}
		state, err := term.MakeRaw(r.fd)
		if nil != err {
			return fmt.Errorf("unable to make terminal raw: %w", err)
		}
		r.restoreState = state
	}
	if r.Cols == 0 {
		r.Cols = 80
	}
	if r.Rows == 0 {
		r.Rows = 30
	}

	fmt.Fprintf(r.Out, "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[J",      // Clear the screen
	)
	return nil
}

func (r *DefaultRenderer) Deinit() error {
	fmt.Fprintf(r.Out, "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	)
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(r.fd, r.restoreState)
}

func (r *DefaultRenderer) AddDecoration(col, row uint16, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		X:       col,
		Y:       row,
		Content: content,
		Frames:  frames,
	})
	r.Fill(row, col, content)
}

func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames == 0 {
			r.Fill(d.Y, d.X, strings.Repeat(" ", len([]rune(stripANSI(d.Content)))))
			continue
		}
		r.Fill(d.Y, d.X, d.Content)
		nd = append(nd, d)
		d.Frames--
	}
	r.decorations = nd
}

// RenderLoop draws the latest frame once per period until ctx is done.
func (r *DefaultRenderer) RenderLoop(ctx context.Context, frames <-chan engine.Frame, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	var latest engine.Frame
	dirty := false
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-frames:
			latest = f
			dirty = true
		case <-ticker.C:
			if dirty {
				r.Render(latest)
				dirty = false
			}
			r.tickDecorations()
			r.flush()
		}
	}
}

func (r *DefaultRenderer) Fill(row, column uint16, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.FormatInt(int64(row), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(column), 10))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) FillColor(row, column uint16, c theme.Color, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.FormatInt(int64(row), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(column), 10))
	r.buffer.WriteString("H\033[38;2;")
	r.buffer.WriteString(strconv.FormatInt(int64(c.R), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(c.G), 10))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.FormatInt(int64(c.B), 10))
	r.buffer.WriteString("m")
	r.buffer.WriteString(message)
	r.buffer.WriteString("\033[0m")
}

func (r *DefaultRenderer) flush() {
	r.Out.Write([]byte(r.buffer.String()))
	r.buffer.Reset()
}

func (r *DefaultRenderer) playheadColumn() int {
	return r.Cols / 4
}

// column maps a timeline x to a screen column for the given offset.
func (r *DefaultRenderer) column(x, offset float64) int {
	return r.playheadColumn() + int(math.Floor((x-offset)/pixelsPerColumn))
}

func staffRow(y float64) int {
	return staffTopRow + int(math.Round((y-staffTopY)/pixelsPerRow))
}

// Render draws the staff, the notes around the playhead and the session.
func (r *DefaultRenderer) Render(f engine.Frame) {
	for row, line := range r.compose(f).lines() {
		r.Fill(uint16(row+1), 1, line)
	}
	r.decorateResult(f)
}

func (r *DefaultRenderer) compose(f engine.Frame) *canvas {
	c := newCanvas(r.Rows, r.Cols)

	for _, y := range staffLineYs {
		c.hline(staffRow(y), "─")
	}
	if nil != f.Layout {
		offset := f.State.OffsetPx
		for _, b := range f.Layout.MeasureBoundaries {
			col := r.column(b, offset)
			for _, y := range staffLineYs {
				c.set(staffRow(y), col, r.Theme.RenderBar())
			}
		}
		for _, n := range f.Layout.Notes {
			start := r.column(n.X, offset)
			end := r.column(n.End(), offset)
			if end < start {
				end = start
			}
			glyph := r.Theme.RenderNote(n.Pitch)
			row := staffRow(n.Y)
			for col := start; col < end; col++ {
				c.set(row, col, glyph)
			}
		}
	}
	playhead := r.playheadColumn()
	c.set(staffTopRow-1, playhead, "▼")
	c.set(staffTopRow+staffRows, playhead, "▲")

	r.renderStats(c, f)
	r.renderProgress(c, f)
	return c
}

func (r *DefaultRenderer) renderStats(c *canvas, f engine.Frame) {
	title := "tutor"
	if nil != f.Score && f.Score.Title != "" {
		title = f.Score.Title
		if f.Measure >= 0 {
			title += fmt.Sprintf("  bar %d/%d", f.Measure+1, len(f.Score.Measures))
		}
	}
	if f.Duration > 0 {
		title += fmt.Sprintf("  %v / %v", f.GameTime.Round(time.Second), f.Duration.Round(time.Second))
	}
	c.text(1, 2, title)

	status := "paused"
	switch {
	case f.Completed:
		status = "complete"
	case f.State.IsPlaying:
		status = "playing"
	case f.State.Mode != timeline.Automatic:
		status = "dragging"
	}
	c.text(1, r.Cols-len(status)-1, status)

	if nil == f.Session {
		return
	}
	s := f.Session
	lines := []string{
		fmt.Sprintf("     Points:  %8.0f", s.Points),
		fmt.Sprintf("     Streak:  %8d  (best %d)", s.CurrentStreak, s.BestStreak),
		fmt.Sprintf(" Multiplier:  %8.1fx", s.Multiplier),
		fmt.Sprintf("   Accuracy:  %7.1f%%  (recent %.0f%%)", f.Stats.Accuracy, f.Stats.RecentAccuracy),
		fmt.Sprintf("       Mean:  %8v", f.Stats.MeanTimingError.Round(time.Millisecond)),
		fmt.Sprintf("      Stdev:  %8v", f.Stats.Stdev.Round(time.Millisecond)),
		fmt.Sprintf("    Correct:  %8d  Incorrect: %d  Missed: %d", s.Correct, s.Incorrect, s.Missed),
		fmt.Sprintf("   Upcoming:  %v", strings.Join(s.Expected, " ")),
	}
	for i, l := range lines {
		c.text(statsRow+i, 2, l)
	}
}

func (r *DefaultRenderer) renderProgress(c *canvas, f engine.Frame) {
	width := r.Cols - 10
	if width < 1 {
		return
	}
	filled := int(math.Round(f.Percentage / 100 * float64(width)))
	bar := strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
	c.text(r.Rows-1, 2, fmt.Sprintf("%s %5.1f%%", bar, f.Percentage))
}

// decorateResult flashes the feedback of a new judgement next to the playhead.
func (r *DefaultRenderer) decorateResult(f engine.Frame) {
	if f.Last == r.lastResult {
		return
	}
	r.lastResult = f.Last
	if nil == f.Last {
		return
	}

	col := uint16(r.playheadColumn() + 2)
	row := uint16(staffTopRow + staffRows + 1)
	if f.Last.IsCorrect {
		r.AddDecoration(col, row, "\033[1;32m"+f.Last.Feedback+"\033[0m", decorationLife)
	} else {
		r.AddDecoration(col, row, "\033[1;31m"+f.Last.Feedback+"\033[0m", decorationLife)
	}
}
