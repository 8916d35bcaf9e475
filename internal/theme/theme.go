package theme

type Theme interface {
	// NoteColor is the hex colour for a pitch, or "" when it has none.
	NoteColor(pitch string) string
	RenderNote(pitch string) string
	RenderBar() string
}
