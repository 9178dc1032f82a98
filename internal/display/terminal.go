// Package display renders the session text surface on a terminal.
package display

import (
	"fmt"
	"io"
	"sync"
)

// Terminal writes every replacement of the text surface to w. With Verbose
// off only the text current at Flush time is written.
type Terminal struct {
	mu      sync.Mutex
	w       io.Writer
	verbose bool
	text    string
}

func NewTerminal(w io.Writer, verbose bool) *Terminal {
	return &Terminal{w: w, verbose: verbose}
}

func (t *Terminal) SetText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.text = text
	if t.verbose {
		fmt.Fprintln(t.w, text)
	}
}

func (t *Terminal) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text
}

// Flush writes the final text when not in verbose mode.
func (t *Terminal) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.verbose || t.text == "" {
		return nil
	}
	_, err := fmt.Fprintln(t.w, t.text)
	return err
}
