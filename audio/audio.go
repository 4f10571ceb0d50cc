// Package audio wraps the PulseAudio and ffmpeg command-line tools the
// dual-track recorder leans on.
package audio

import (
	"fmt"
	"os/exec"
	"strings"
)

// DefaultSinkMonitor asks pactl for the current default sink and
// returns its monitor source name. The answer reflects the default at
// call time; if the user switches sinks mid-recording, the monitor
// keeps pointing at the old one.
func DefaultSinkMonitor() (string, error) {
	out, err := exec.Command("pactl", "get-default-sink").Output()
	if err != nil {
		return "", fmt.Errorf("querying default sink: %w", err)
	}
	sink := strings.TrimSpace(string(out))
	if sink == "" {
		return "", fmt.Errorf("pactl reported no default sink")
	}
	return monitorName(sink), nil
}

func monitorName(sink string) string {
	return sink + ".monitor"
}

// Per-channel gain for the mixdown. The mic track runs quiet relative
// to system output, so it gets a fixed boost. Not configurable.
const (
	micGain    = "2.0"
	outputGain = "1.0"
)

var mixFilter = fmt.Sprintf(
	"[0:a]volume=%s[mic];[1:a]volume=%s[out];[mic][out]amerge=inputs=2,pan=stereo|c0<c0|c1<c1[a]",
	micGain, outputGain,
)

// Mixdown merges the mic and output tracks into one stereo file. It
// blocks until ffmpeg exits; a non-zero exit is returned as an error
// with ffmpeg's console tail attached. No cleanup happens here; the
// caller decides what survives a failure.
func Mixdown(micPath, outputPath, combinedPath string) error {
	cmd := exec.Command("ffmpeg",
		"-nostdin",
		"-hide_banner",
		"-i", micPath,
		"-i", outputPath,
		"-filter_complex", mixFilter,
		"-map", "[a]",
		combinedPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg mixdown: %w: %s", err, tail(string(out), 400))
	}
	return nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "…" + s[len(s)-n:]
}
