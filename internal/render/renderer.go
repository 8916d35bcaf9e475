package render

import (
	"context"
	"time"

	"git.lost.host/meutraa/tutor/internal/engine"
	"git.lost.host/meutraa/tutor/internal/theme"
)

type Renderer interface {
	Init() error
	Deinit() error
	AddDecoration(col, row uint16, content string, frames int)
	Render(f engine.Frame)
	RenderLoop(ctx context.Context, frames <-chan engine.Frame, period time.Duration)
	Fill(row, column uint16, message string)
	FillColor(row, column uint16, color theme.Color, message string)
}
