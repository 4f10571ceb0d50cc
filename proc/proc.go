// Package proc supervises the capture and relay subprocesses.
//
// Every child is started as a process-group leader so a pipeline can be
// torn down with a single group-wide SIGTERM, children included. That
// matters for cancellation: the reader goroutine may be blocked in a
// read that only the relay's death will unblock.
package proc

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"whisperkey/log"
)

// Pipeline owns one capture process and, optionally, a relay process
// whose stdin is fed exclusively by the capture's stdout. The creator
// of a Pipeline is the only party allowed to stop it.
type Pipeline struct {
	capture *exec.Cmd
	relay   *exec.Cmd
	out     io.ReadCloser

	mu      sync.Mutex
	stopped bool
}

func command(args []string) *exec.Cmd {
	cmd := exec.Command(args[0], args[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	return cmd
}

// StartPipeline launches capture with its stdout piped into relay's
// stdin, and relay's stdout piped back for reading. On any start
// failure the half-started pipeline is rolled back; nothing is left
// running.
func StartPipeline(captureArgs, relayArgs []string) (*Pipeline, error) {
	if len(captureArgs) == 0 || len(relayArgs) == 0 {
		return nil, fmt.Errorf("pipeline needs capture and relay commands")
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating capture pipe: %w", err)
	}

	capture := command(captureArgs)
	capture.Stdout = pw

	relay := command(relayArgs)
	relay.Stdin = pr

	// Output is a pipe the parent owns rather than StdoutPipe, so the
	// reaper's Wait never closes it out from under a blocked reader. The
	// reader sees EOF when the relay dies.
	outR, outW, err := os.Pipe()
	if err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("creating relay stdout pipe: %w", err)
	}
	relay.Stdout = outW

	if err := capture.Start(); err != nil {
		closeAll(pr, pw, outR, outW)
		return nil, fmt.Errorf("starting capture %q: %w", captureArgs[0], err)
	}
	if err := relay.Start(); err != nil {
		killGroup(capture)
		closeAll(pr, pw, outR, outW)
		go capture.Wait()
		return nil, fmt.Errorf("starting relay %q: %w", relayArgs[0], err)
	}

	// The children hold their own copies now. The parent's write ends in
	// particular must go, or the relay never sees EOF when capture dies
	// and the reader never sees EOF when the relay dies.
	pr.Close()
	pw.Close()
	outW.Close()

	go capture.Wait()
	go relay.Wait()

	return &Pipeline{capture: capture, relay: relay, out: outR}, nil
}

// StartCapture launches a single capture process with its stdout piped
// for reading, no relay stage. Used by the dual-track recorder, whose
// processes write to files and whose stdout is diagnostic only.
func StartCapture(args []string) (*Pipeline, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("capture command is empty")
	}

	capture := command(args)
	outR, outW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating capture stdout pipe: %w", err)
	}
	capture.Stdout = outW
	// ffmpeg chatters on stderr; fold it into the diagnostic stream.
	capture.Stderr = outW

	if err := capture.Start(); err != nil {
		closeAll(outR, outW)
		return nil, fmt.Errorf("starting capture %q: %w", args[0], err)
	}
	outW.Close()
	go capture.Wait()

	return &Pipeline{capture: capture, out: outR}, nil
}

// Output is the stream the engine reads: the relay's stdout for a full
// pipeline, the capture's own stdout otherwise.
func (p *Pipeline) Output() io.ReadCloser {
	return p.out
}

// Stop terminates the whole pipeline by signalling each process group.
// It is idempotent; stopping an already-stopped pipeline is a no-op.
func (p *Pipeline) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return nil
	}
	p.stopped = true

	killGroup(p.capture)
	killGroup(p.relay)
	// Closing the read end frees the descriptor and unblocks any reader
	// the group signal somehow did not.
	p.out.Close()
	return nil
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		f.Close()
	}
}

func killGroup(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		log.Warnf("finding process group of pid %d: %v", cmd.Process.Pid, err)
		return
	}
	if err := syscall.Kill(-pgid, syscall.SIGTERM); err != nil && err != syscall.ESRCH {
		log.Warnf("terminating process group %d: %v", pgid, err)
	}
}
