package main

import (
	"os"
	"os/exec"
	"strings"
)

// setupDisplay fills in DISPLAY when the process starts without one,
// as happens under a user service. The active session's display comes
// from `w`; when that fails, :0 is the usual answer.
func setupDisplay() {
	if os.Getenv("DISPLAY") != "" {
		return
	}
	os.Setenv("DISPLAY", currentDisplay())
}

func currentDisplay() string {
	out, err := exec.Command("w", "-hs").Output()
	if err != nil {
		return ":0"
	}
	fields := strings.Fields(string(out))
	if len(fields) < 3 || !strings.HasPrefix(fields[2], ":") {
		return ":0"
	}
	return fields[2]
}
