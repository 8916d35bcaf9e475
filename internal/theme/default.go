package theme

import (
	"fmt"
	"strconv"

	"git.lost.host/meutraa/tutor/internal/game"
)

type DefaultTheme struct {
}

type Color struct {
	R, G, B uint8
}

func (t *DefaultTheme) NoteColor(pitch string) string {
	if pitch == game.Rest {
		return ""
	}
	return noteColors[game.Letter(pitch)]
}

func (t *DefaultTheme) RenderNote(pitch string) string {
	if pitch == game.Rest {
		return restSym
	}
	c, ok := ParseHex(t.NoteColor(pitch))
	if !ok {
		return noteSym
	}
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, noteSym)
}

func (t *DefaultTheme) RenderBar() string {
	return barSym
}

const (
	noteSym = "█"
	restSym = "·"
	barSym  = "│"
)

var (
	noteColors = map[string]string{
		"C": "#CE82FF", // purple
		"D": "#FF9602", // orange
		"E": "#57CD03", // green
		"F": "#CC348E", // magenta
		"G": "#7090FF", // blue
		"A": "#FF87D0", // pink
		"B": "#00CE9C", // teal
	}
)

// ParseHex reads "#RRGGBB".
func ParseHex(hex string) (Color, bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return Color{}, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if nil != err {
		return Color{}, false
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, true
}
