// Package typer injects text into the focused window via xdotool.
package typer

import (
	"fmt"
	"os/exec"
)

// Xdotool types text with modifiers cleared and a minimal inter-key
// delay, matching interactive typing closely enough for editors that
// debounce input.
type Xdotool struct{}

func (Xdotool) Type(text string) error {
	cmd := exec.Command("xdotool", "type", "--clearmodifiers", "--delay", "1", text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("xdotool type: %w: %s", err, out)
	}
	return nil
}
