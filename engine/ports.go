package engine

import "io"

// Pipeline is a running capture (and optionally relay) process pair.
// The engine that started a Pipeline exclusively owns it; only the
// owner may stop it.
type Pipeline interface {
	Output() io.ReadCloser
	Stop() error
}

// Supervisor starts supervised subprocess pipelines.
type Supervisor interface {
	// StartPipeline wires capture's stdout into relay's stdin and
	// exposes relay's stdout. Rolls back fully on failure.
	StartPipeline(captureArgs, relayArgs []string) (Pipeline, error)
	// StartCapture runs a single capture process whose stdout is
	// diagnostic output only.
	StartCapture(args []string) (Pipeline, error)
}

// Typer injects text into the currently focused window. The mechanism
// is outside this process; only success or failure comes back.
type Typer interface {
	Type(text string) error
}

// Store persists transcribed text.
type Store interface {
	AppendLine(text string) error
	SaveSession(start, text string) error
}

// StatusSink receives display updates. Implementations run off the
// engine goroutine's back, so they must not block.
type StatusSink interface {
	Status(text string)
	Timer(label string)
	Recording(on bool)
}

// Cue plays audible notifications. Fire-and-forget; failures are the
// implementation's problem.
type Cue interface {
	PlayComplete()
	PlayError()
}

type nopSink struct{}

func (nopSink) Status(string)  {}
func (nopSink) Timer(string)   {}
func (nopSink) Recording(bool) {}

type nopCue struct{}

func (nopCue) PlayComplete() {}
func (nopCue) PlayError()    {}
