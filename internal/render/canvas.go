package render

import (
	"regexp"
	"strings"
)

// canvas is a grid of cells, each holding one visible character plus any
// escape sequences that colour it.
type canvas struct {
	cells [][]string
}

func newCanvas(rows, cols int) *canvas {
	c := &canvas{cells: make([][]string, rows)}
	for i := range c.cells {
		c.cells[i] = make([]string, cols)
		for j := range c.cells[i] {
			c.cells[i][j] = " "
		}
	}
	return c
}

// set ignores cells outside the grid. Columns are 1 based like the terminal.
func (c *canvas) set(row, col int, cell string) {
	if row < 0 || row >= len(c.cells) {
		return
	}
	if col < 1 || col > len(c.cells[row]) {
		return
	}
	c.cells[row][col-1] = cell
}

func (c *canvas) hline(row int, cell string) {
	if row < 0 || row >= len(c.cells) {
		return
	}
	for col := 1; col <= len(c.cells[row]); col++ {
		c.set(row, col, cell)
	}
}

func (c *canvas) text(row, col int, s string) {
	for i, r := range []rune(s) {
		c.set(row, col+i, string(r))
	}
}

func (c *canvas) lines() []string {
	lines := make([]string, len(c.cells))
	for i, row := range c.cells {
		lines[i] = strings.Join(row, "")
	}
	return lines
}

var ansi = regexp.MustCompile("\033\\[[0-9;]*[A-Za-z]")

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}
