package engine

import (
	"strings"
	"testing"
	"time"
)

func TestProbeSuccessUpdatesLastSeen(t *testing.T) {
	e, _, _, _, sink, _, now := testEngine()

	*now = now.Add(30 * time.Second)
	e.handleProbeResult(true)
	if !e.lastSeen.Equal(*now) {
		t.Errorf("lastSeen = %v, want %v", e.lastSeen, *now)
	}
	if got := sink.lastStatus(); !strings.HasPrefix(got, "ready") {
		t.Errorf("status = %q", got)
	}
}

func TestProbeFailureLeavesLastSeen(t *testing.T) {
	e, _, _, _, sink, _, now := testEngine()
	seen := e.lastSeen

	*now = now.Add(90 * time.Second)
	e.handleProbeResult(false)
	if !e.lastSeen.Equal(seen) {
		t.Error("failed probe moved lastSeen")
	}
	got := sink.lastStatus()
	if !strings.HasPrefix(got, "server unavailable") {
		t.Errorf("status = %q", got)
	}
	if !strings.Contains(got, "1m ago") {
		t.Errorf("status lacks last-seen suffix: %q", got)
	}
}

func TestProbeNeverOverwritesRecordingStatus(t *testing.T) {
	e, _, _, _, sink, _, _ := testEngine()
	e.startTranscribe()
	before := sink.lastStatus()

	e.handleProbeResult(false)
	if sink.lastStatus() != before {
		t.Errorf("status changed to %q during recording", sink.lastStatus())
	}
	// lastSeen still tracks successes silently.
	e.handleProbeResult(true)
	if sink.lastStatus() != before {
		t.Errorf("status changed to %q during recording", sink.lastStatus())
	}
}

func TestSinceLabelBuckets(t *testing.T) {
	for _, tt := range []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s ago"},
		{59 * time.Second, "59s ago"},
		{60 * time.Second, "1m ago"},
		{45 * time.Minute, "45m ago"},
		{2 * time.Hour, "2h ago"},
	} {
		if got := sinceLabel(tt.d); got != tt.want {
			t.Errorf("sinceLabel(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
