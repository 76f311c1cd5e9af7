package stats

import (
	"io"
	"os"

	"golang.org/x/term"
)

const terminalWidthBackup = 80

func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
