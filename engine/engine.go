// Package engine drives recording and transcription sessions.
//
// All session state lives on a single goroutine: Run's select loop
// processes commands, queue drains, timer ticks and probe results one
// at a time, so state transitions never race. Background goroutines
// (the protocol reader, the diagnostic drains, the probe dial) only
// ever push into the concurrent queue or result channels.
package engine

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"whisperkey/log"
)

// Labels are the status line templates the engine surfaces. The caller
// bakes hotkey hints into them.
type Labels struct {
	Ready         string
	Transcribing  string
	RecordingDual string
	Error         string
	ServerError   string
}

type Config struct {
	ServerHost    string
	ServerPort    int
	MaxDuration   time.Duration
	RecordingsDir string
	Labels        Labels

	DrainInterval time.Duration
	ProbeInterval time.Duration
	ProbeTimeout  time.Duration
}

func (c *Config) fillDefaults() {
	if c.DrainInterval <= 0 {
		c.DrainInterval = 50 * time.Millisecond
	}
	if c.ProbeInterval <= 0 {
		c.ProbeInterval = 5 * time.Second
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = time.Second
	}
}

// Deps are the engine's external collaborators. Supervisor, Typer and
// Store are required; the rest default to no-ops or stdlib behavior.
type Deps struct {
	Supervisor Supervisor
	Typer      Typer
	Store      Store
	Sink       StatusSink
	Cue        Cue

	// MonitorSource resolves the default audio sink's monitor source
	// for the dual-track recorder.
	MonitorSource func() (string, error)
	// Mixdown merges the two per-track files into the combined file.
	Mixdown func(micPath, outputPath, combinedPath string) error
	// Dial is the reachability probe's connect attempt.
	Dial func(addr string, timeout time.Duration) error
}

// State is the mic-transcription machine's position.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateError
)

type dualState int

const (
	dualIdle dualState = iota
	dualRecording
	dualCombining
)

type commandKind int

const (
	cmdToggleTranscribe commandKind = iota
	cmdToggleDual
	cmdSetMaxDuration
)

type command struct {
	kind commandKind
	dur  time.Duration
}

type Engine struct {
	cfg  Config
	deps Deps
	now  func() time.Time

	cmds         chan command
	probeResults chan bool
	queue        deliveryQueue

	// Mic transcription session. Engine goroutine only, except
	// readerActive, the cancellation flag the reader goroutine polls.
	// The flag alone cannot cancel a blocked read; killing the process
	// group is what actually unblocks it.
	state        State
	sessionStart string
	sessionText  []string
	startTime    time.Time
	maxDuration  time.Duration
	pipeline     Pipeline
	readerActive atomic.Bool

	// Dual-track recorder.
	dual      dualState
	dualStart time.Time
	micPipe   Pipeline
	outPipe   Pipeline
	micFile   string
	outFile   string

	// Reachability. Written on the engine goroutine only.
	lastSeen time.Time
}

func New(cfg Config, deps Deps) *Engine {
	cfg.fillDefaults()
	if deps.Sink == nil {
		deps.Sink = nopSink{}
	}
	if deps.Cue == nil {
		deps.Cue = nopCue{}
	}
	if deps.MonitorSource == nil {
		deps.MonitorSource = func() (string, error) {
			return "", errors.New("no monitor source resolver wired")
		}
	}
	if deps.Mixdown == nil {
		deps.Mixdown = func(_, _, _ string) error {
			return errors.New("no mixdown runner wired")
		}
	}
	if deps.Dial == nil {
		deps.Dial = func(addr string, timeout time.Duration) error {
			conn, err := net.DialTimeout("tcp", addr, timeout)
			if err != nil {
				return err
			}
			return conn.Close()
		}
	}
	e := &Engine{
		cfg:          cfg,
		deps:         deps,
		now:          time.Now,
		cmds:         make(chan command, 8),
		probeResults: make(chan bool, 1),
	}
	e.lastSeen = e.now()
	return e
}

// ToggleTranscribe starts a mic transcription session, or stops the
// active one. Safe from any goroutine.
func (e *Engine) ToggleTranscribe() {
	e.cmds <- command{kind: cmdToggleTranscribe}
}

// ToggleDualTrack starts or stops the mic+output recording.
func (e *Engine) ToggleDualTrack() {
	e.cmds <- command{kind: cmdToggleDual}
}

// SetMaxDuration updates the session ceiling. It applies to the next
// session; a running session keeps the value it started with.
func (e *Engine) SetMaxDuration(d time.Duration) {
	e.cmds <- command{kind: cmdSetMaxDuration, dur: d}
}

// Run owns all state until ctx is cancelled. Everything that mutates
// session state happens inside this loop.
func (e *Engine) Run(ctx context.Context) {
	drain := time.NewTicker(e.cfg.DrainInterval)
	tick := time.NewTicker(time.Second)
	probe := time.NewTicker(e.cfg.ProbeInterval)
	defer drain.Stop()
	defer tick.Stop()
	defer probe.Stop()

	e.deps.Sink.Status(e.cfg.Labels.Ready)

	for {
		select {
		case <-ctx.Done():
			e.shutdown()
			return
		case cmd := <-e.cmds:
			e.handleCommand(cmd)
		case <-drain.C:
			e.drainQueue()
		case <-tick.C:
			e.handleTick()
		case <-probe.C:
			go e.probe()
		case ok := <-e.probeResults:
			e.handleProbeResult(ok)
		}
	}
}

func (e *Engine) handleCommand(cmd command) {
	switch cmd.kind {
	case cmdToggleTranscribe:
		if e.state == StateRecording {
			e.stopTranscribe()
		} else {
			e.startTranscribe()
		}
	case cmdToggleDual:
		if e.dual == dualRecording {
			e.stopDualTrack()
		} else {
			e.startDualTrack()
		}
	case cmdSetMaxDuration:
		e.cfg.MaxDuration = cmd.dur
		log.Infof("max session duration now %s (next session)", cmd.dur)
	}
}

func (e *Engine) handleTick() {
	if e.state == StateRecording {
		e.transcribeTick()
	}
	if e.dual == dualRecording {
		e.dualTick()
	}
}

func (e *Engine) shutdown() {
	e.stopTranscribe()
	e.stopDualTrack()
}

func (e *Engine) anyRecording() bool {
	return e.state == StateRecording || e.dual != dualIdle
}
