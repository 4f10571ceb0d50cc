package engine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"whisperkey/log"
	"whisperkey/transcript"
)

func recordArgs(source, path string) []string {
	return []string{
		"ffmpeg",
		"-nostdin",
		"-hide_banner",
		"-f", "pulse",
		"-i", source,
		"-ac", "1",
		path,
	}
}

// startDualTrack launches two independent capture pipelines, one for
// the mic and one for the default sink's monitor source. Neither feeds
// a relay; their stdout is diagnostic chatter only.
func (e *Engine) startDualTrack() {
	if e.dual != dualIdle {
		return
	}

	ts := e.now().Format(transcript.TimestampFormat)
	if err := os.MkdirAll(e.cfg.RecordingsDir, 0755); err != nil {
		log.Errorf("creating recordings directory: %v", err)
		e.deps.Sink.Status(e.cfg.Labels.Error)
		return
	}
	e.micFile = filepath.Join(e.cfg.RecordingsDir, ts+"_mic.wav")
	e.outFile = filepath.Join(e.cfg.RecordingsDir, ts+"_output.wav")

	// Resolved once at start. If the default sink changes mid-session
	// the monitor keeps recording the old one; accepted limitation.
	monitor, err := e.deps.MonitorSource()
	if err != nil {
		log.Errorf("resolving output monitor source: %v", err)
		e.deps.Sink.Status(e.cfg.Labels.Error)
		e.deps.Cue.PlayError()
		return
	}

	micPipe, err := e.deps.Supervisor.StartCapture(recordArgs("default", e.micFile))
	if err != nil {
		log.Errorf("starting mic recording: %v", err)
		e.deps.Sink.Status(e.cfg.Labels.Error)
		e.deps.Cue.PlayError()
		return
	}
	outPipe, err := e.deps.Supervisor.StartCapture(recordArgs(monitor, e.outFile))
	if err != nil {
		log.Errorf("starting output recording: %v", err)
		if stopErr := micPipe.Stop(); stopErr != nil {
			log.Warnf("rolling back mic recording: %v", stopErr)
		}
		e.deps.Sink.Status(e.cfg.Labels.Error)
		e.deps.Cue.PlayError()
		return
	}

	e.micPipe = micPipe
	e.outPipe = outPipe
	e.dual = dualRecording
	e.dualStart = e.now()

	go drainDiagnostics(micPipe.Output(), "mic ffmpeg")
	go drainDiagnostics(outPipe.Output(), "output ffmpeg")

	e.deps.Sink.Recording(true)
	e.deps.Sink.Timer("0s")
	e.deps.Sink.Status(e.cfg.Labels.RecordingDual)
	log.Infof("dual-track recording started: %s, %s (source %s)", e.micFile, e.outFile, monitor)
}

// stopDualTrack kills both pipelines, then runs the offline mixdown.
// The per-track files are deleted only if the mixdown succeeds; on
// failure they are kept for manual recovery, and nothing retries.
func (e *Engine) stopDualTrack() {
	if e.dual != dualRecording {
		return
	}

	if err := e.micPipe.Stop(); err != nil {
		log.Warnf("stopping mic recording: %v", err)
	}
	if err := e.outPipe.Stop(); err != nil {
		log.Warnf("stopping output recording: %v", err)
	}
	e.micPipe = nil
	e.outPipe = nil

	e.dual = dualCombining
	e.deps.Sink.Recording(false)
	e.deps.Sink.Timer("")

	combined := combinedPath(e.micFile)
	if err := e.deps.Mixdown(e.micFile, e.outFile, combined); err != nil {
		log.Errorf("mixdown failed, keeping %s and %s: %v", e.micFile, e.outFile, err)
	} else {
		for _, f := range []string{e.micFile, e.outFile} {
			if err := os.Remove(f); err != nil {
				log.Warnf("removing intermediate %s: %v", f, err)
			}
		}
		log.Infof("combined recording written: %s", combined)
	}

	e.dual = dualIdle
	e.deps.Sink.Status(e.cfg.Labels.Ready)
}

func (e *Engine) dualTick() {
	elapsed := int(e.now().Sub(e.dualStart).Seconds())
	e.deps.Sink.Timer(fmt.Sprintf("%ds", elapsed))
}

func combinedPath(micPath string) string {
	base := micPath[:len(micPath)-len("_mic.wav")]
	return base + "_combined.wav"
}

// drainDiagnostics logs a pipeline's console output. Nothing in it is
// parsed; it exists so ffmpeg failures show up in the diagnostics log.
func drainDiagnostics(r io.Reader, name string) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			log.Infof("%s: %s", name, line)
		}
	}
}
