package engine

import (
	"fmt"
	"strconv"
	"strings"

	"whisperkey/log"
	"whisperkey/segment"
	"whisperkey/transcript"
)

func captureArgs() []string {
	// Raw 16kHz mono s16le, headerless, straight onto the wire.
	return []string{
		"arecord",
		"-f", "S16_LE",
		"-c1",
		"-r", "16000",
		"-t", "raw",
		"-D", "default",
	}
}

func relayArgs(host string, port int) []string {
	return []string{"nc", host, strconv.Itoa(port)}
}

func (e *Engine) startTranscribe() {
	if e.state == StateRecording {
		return
	}

	e.sessionStart = e.now().Format(transcript.TimestampFormat)
	e.sessionText = nil
	e.maxDuration = e.cfg.MaxDuration
	e.queue.clear()

	pipeline, err := e.deps.Supervisor.StartPipeline(
		captureArgs(),
		relayArgs(e.cfg.ServerHost, e.cfg.ServerPort),
	)
	if err != nil {
		log.Errorf("starting transcription pipeline: %v", err)
		e.state = StateError
		e.deps.Sink.Status(e.cfg.Labels.Error)
		e.deps.Cue.PlayError()
		e.state = StateIdle
		return
	}

	e.pipeline = pipeline
	e.state = StateRecording
	e.startTime = e.now()
	e.readerActive.Store(true)

	// Fresh reader per session: the dedup set starts empty and stays
	// owned by this goroutine.
	reader := segment.NewReader()
	go reader.Run(pipeline.Output(), e.readerActive.Load, e.queue.push)

	e.deps.Sink.Recording(true)
	e.deps.Sink.Timer(e.timerLabel(0))
	e.deps.Sink.Status(e.cfg.Labels.Transcribing)
	log.Infof("transcription session %s started", e.sessionStart)
}

// stopTranscribe ends the session from any path: toggle, auto-stop or
// engine shutdown. Stopping while idle is a no-op.
func (e *Engine) stopTranscribe() {
	if e.state != StateRecording {
		return
	}

	// Deliver whatever the reader already queued so it reaches the
	// transcript before the session record is written.
	e.drainQueue()

	if len(e.sessionText) > 0 {
		if err := e.deps.Store.SaveSession(e.sessionStart, strings.Join(e.sessionText, " ")); err != nil {
			log.Errorf("saving session transcript: %v", err)
		}
	}

	e.state = StateIdle
	e.readerActive.Store(false)
	if err := e.pipeline.Stop(); err != nil {
		log.Warnf("stopping transcription pipeline: %v", err)
	}
	e.pipeline = nil

	elapsed := int(e.now().Sub(e.startTime).Seconds())
	log.Session(e.sessionStart, len(e.sessionText), elapsed)

	e.deps.Sink.Recording(false)
	e.deps.Sink.Timer("")
	e.deps.Sink.Status(e.cfg.Labels.Ready)
}

// drainQueue pops everything currently queued and delivers it in
// arrival order. The transcript write comes first on purpose: a typing
// failure must never lose text that was already transcribed.
func (e *Engine) drainQueue() {
	for {
		seg, ok := e.queue.pop()
		if !ok {
			return
		}

		e.sessionText = append(e.sessionText, seg.Text)
		if err := e.deps.Store.AppendLine(seg.Text); err != nil {
			log.Warnf("appending to transcript log: %v", err)
		}
		if err := e.deps.Typer.Type(seg.Text + " "); err != nil {
			log.Warnf("typing segment (%.1fs at %.1fs): %v", seg.Duration(), seg.StartTime(), err)
		}
	}
}

func (e *Engine) transcribeTick() {
	elapsed := int(e.now().Sub(e.startTime).Seconds())
	e.deps.Sink.Timer(e.timerLabel(elapsed))

	// Hard ceiling, not a warning.
	if elapsed >= int(e.maxDuration.Seconds()) {
		log.Infof("session %s hit max duration, auto-stopping", e.sessionStart)
		e.stopTranscribe()
		e.deps.Cue.PlayComplete()
	}
}

func (e *Engine) timerLabel(elapsed int) string {
	return fmt.Sprintf("%d/%ds", elapsed, int(e.maxDuration.Seconds()))
}
