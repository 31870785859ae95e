package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the OpenPermit ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   ___                   ___               _ _   ", "#34d399"},
		{"  / _ \\ _ __  ___ _ _   | _ \\___ _ _ _ __ (_) |_ ", "#2dd4bf"},
		{" | (_) | '_ \\/ -_) ' \\  |  _/ -_) '_| '  \\| |  _|", "#22d3ee"},
		{"  \\___/| .__/\\___|_||_| |_| \\___|_| |_|_|_|_|\\__|", "#38bdf8"},
		{"       |_|                                        ", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
