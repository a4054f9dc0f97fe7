package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Anilink.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"     _          _ _ _       _    ", "#818cf8"},
		{"    / \\   _ __ (_) (_)_ __ | | __", "#a78bfa"},
		{"   / _ \\ | '_ \\| | | | '_ \\| |/ /", "#c084fc"},
		{"  / ___ \\| | | | | | | | | |   < ", "#e879f9"},
		{" /_/   \\_\\_| |_|_|_|_|_| |_|_|\\_\\", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
