package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner shown by interactive commands.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Teal-to-blue gradient.
	s1 := termenv.String("                _                          _ ").Foreground(p.Color("#2dd4bf"))
	s2 := termenv.String("  ___ ___   __| | ___ _ __ ___   ___ _ __   __| |").Foreground(p.Color("#22d3ee"))
	s3 := termenv.String(" / __/ _ \\ / _` |/ _ \\ '_ ` _ \\ / _ \\ '_ \\ / _` |").Foreground(p.Color("#38bdf8"))
	s4 := termenv.String("| (_| (_) | (_| |  __/ | | | | |  __/ | | | (_| |").Foreground(p.Color("#60a5fa"))
	s5 := termenv.String(" \\___\\___/ \\__,_|\\___|_| |_| |_|\\___|_| |_|\\__,_|").Foreground(p.Color("#818cf8"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println()
}
