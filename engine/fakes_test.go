package engine

import (
	"errors"
	"io"
	"strings"
	"time"
)

var errTyping = errors.New("xdotool exploded")

type fakePipeline struct {
	out     io.ReadCloser
	stopped int
}

func (p *fakePipeline) Output() io.ReadCloser { return p.out }
func (p *fakePipeline) Stop() error {
	p.stopped++
	return nil
}

type fakeSupervisor struct {
	failPipeline bool
	failCapture  int // fail the nth StartCapture call (1-based), 0 = never

	pipelines []*fakePipeline
	captures  [][]string
	started   int
}

func (s *fakeSupervisor) StartPipeline(capture, relay []string) (Pipeline, error) {
	if s.failPipeline {
		return nil, errors.New("spawn failed")
	}
	p := &fakePipeline{out: io.NopCloser(strings.NewReader(""))}
	s.pipelines = append(s.pipelines, p)
	return p, nil
}

func (s *fakeSupervisor) StartCapture(args []string) (Pipeline, error) {
	s.started++
	if s.failCapture == s.started {
		return nil, errors.New("spawn failed")
	}
	s.captures = append(s.captures, args)
	p := &fakePipeline{out: io.NopCloser(strings.NewReader(""))}
	s.pipelines = append(s.pipelines, p)
	return p, nil
}

type fakeTyper struct {
	typed []string
	err   error
}

func (t *fakeTyper) Type(text string) error {
	t.typed = append(t.typed, text)
	return t.err
}

type fakeStore struct {
	appended []string
	sessions map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string]string)}
}

func (s *fakeStore) AppendLine(text string) error {
	s.appended = append(s.appended, text)
	return nil
}

func (s *fakeStore) SaveSession(start, text string) error {
	s.sessions[start] = text
	return nil
}

type fakeSink struct {
	statuses []string
	timers   []string
}

func (s *fakeSink) Status(text string) { s.statuses = append(s.statuses, text) }
func (s *fakeSink) Timer(label string) { s.timers = append(s.timers, label) }
func (s *fakeSink) Recording(on bool)  {}

func (s *fakeSink) lastStatus() string {
	if len(s.statuses) == 0 {
		return ""
	}
	return s.statuses[len(s.statuses)-1]
}

type fakeCue struct {
	complete int
	errors   int
}

func (c *fakeCue) PlayComplete() { c.complete++ }
func (c *fakeCue) PlayError()    { c.errors++ }

func testLabels() Labels {
	return Labels{
		Ready:         "ready",
		Transcribing:  "transcribing",
		RecordingDual: "recording both",
		Error:         "recording error",
		ServerError:   "server unavailable",
	}
}

// testEngine builds an engine with fakes and a controllable clock.
func testEngine() (*Engine, *fakeSupervisor, *fakeTyper, *fakeStore, *fakeSink, *fakeCue, *time.Time) {
	sup := &fakeSupervisor{}
	typer := &fakeTyper{}
	store := newFakeStore()
	sink := &fakeSink{}
	cue := &fakeCue{}

	e := New(Config{
		ServerHost:    "localhost",
		ServerPort:    43007,
		MaxDuration:   60 * time.Second,
		RecordingsDir: "/tmp/recordings",
		Labels:        testLabels(),
	}, Deps{
		Supervisor:    sup,
		Typer:         typer,
		Store:         store,
		Sink:          sink,
		Cue:           cue,
		MonitorSource: func() (string, error) { return "sink.monitor", nil },
		Mixdown:       func(mic, out, combined string) error { return nil },
		Dial:          func(string, time.Duration) error { return nil },
	})

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := &clock
	e.now = func() time.Time { return *now }
	e.lastSeen = clock
	return e, sup, typer, store, sink, cue, now
}
