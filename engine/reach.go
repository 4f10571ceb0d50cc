package engine

import (
	"fmt"
	"time"
)

// probe runs off the engine goroutine so a stalled network cannot
// stall the select loop; only the bounded dial happens here. The
// result lands back on the engine goroutine via probeResults.
func (e *Engine) probe() {
	err := e.deps.Dial(e.addr(), e.cfg.ProbeTimeout)
	select {
	case e.probeResults <- err == nil:
	default:
	}
}

func (e *Engine) addr() string {
	return fmt.Sprintf("%s:%d", e.cfg.ServerHost, e.cfg.ServerPort)
}

// handleProbeResult updates reachability state. Purely informational:
// a dead server never blocks recording, and an active recording's
// status line is never overwritten by connectivity info.
func (e *Engine) handleProbeResult(ok bool) {
	if ok {
		e.lastSeen = e.now()
	}
	if e.anyRecording() {
		return
	}

	base := e.cfg.Labels.Ready
	if !ok {
		base = e.cfg.Labels.ServerError
	}
	e.deps.Sink.Status(fmt.Sprintf("%s (Server Last seen: %s)", base, sinceLabel(e.now().Sub(e.lastSeen))))
}

func sinceLabel(d time.Duration) string {
	s := int(d.Seconds())
	switch {
	case s < 60:
		return fmt.Sprintf("%ds ago", s)
	case s < 3600:
		return fmt.Sprintf("%dm ago", s/60)
	default:
		return fmt.Sprintf("%dh ago", s/3600)
	}
}
