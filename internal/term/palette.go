// Package term provides terminal detection and a constructed color palette
// for CLI output. Color state is a value handed to printing code, never a
// mutable global.
package term

// Palette holds the ANSI escape sequences used for colored output. A zero
// Palette (all fields empty) renders plain text, which is what non-TTY
// output gets.
type Palette struct {
	Red    string
	Green  string
	Yellow string
	Cyan   string
	Bold   string
	Reset  string
}

// NewPalette returns a colored palette when enabled, a zero palette otherwise.
func NewPalette(enabled bool) Palette {
	if !enabled {
		return Palette{}
	}
	return Palette{
		Red:    "\033[0;31m",
		Green:  "\033[0;32m",
		Yellow: "\033[1;33m",
		Cyan:   "\033[0;36m",
		Bold:   "\033[1m",
		Reset:  "\033[0m",
	}
}

// stdoutIsTTY reports whether stdout is attached to a terminal. It is a
// package variable so tests can stub it.
var stdoutIsTTY = isTerminal

// StdoutPalette returns the palette appropriate for the current stdout.
func StdoutPalette() Palette {
	return NewPalette(stdoutIsTTY())
}
