package cli

import (
	"io"
	"os"

	"golang.org/x/term"
)

// defaultWidth is the side-by-side width when the output is not a terminal.
const defaultWidth = 120

// useColor resolves a color mode for w. In auto mode, color is used only for terminals and only if NO_COLOR is unset.
func useColor(mode string, w io.Writer) bool {
	switch mode {
	case colorAlways:
		return true
	case colorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func outputWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultWidth
}
