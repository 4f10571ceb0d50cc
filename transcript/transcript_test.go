package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(
		filepath.Join(dir, "whisper-transcript.json"),
		filepath.Join(dir, "whisper-transcript.txt"),
	)
}

func TestAppendLine(t *testing.T) {
	s := newTestStore(t)
	if err := s.AppendLine("hello"); err != nil {
		t.Fatal(err)
	}
	if err := s.AppendLine("world"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(s.logPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("log has %d lines, want 2", len(lines))
	}
	if !strings.HasSuffix(lines[0], " - hello") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " - world") {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestSaveSessionAmendsArchive(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveSession("2025-01-01_10-00-00", "first session"); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSession("2025-01-01_11-00-00", "second session"); err != nil {
		t.Fatal(err)
	}

	sessions, err := s.Sessions()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("archive has %d sessions, want 2", len(sessions))
	}
	if sessions["2025-01-01_10-00-00"] != "first session" {
		t.Errorf("first session = %q", sessions["2025-01-01_10-00-00"])
	}
}

func TestSaveSessionOverCorruptArchive(t *testing.T) {
	s := newTestStore(t)
	if err := os.WriteFile(s.archivePath, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSession("2025-01-01_10-00-00", "recovered"); err != nil {
		t.Fatal(err)
	}
	sessions, err := s.Sessions()
	if err != nil {
		t.Fatal(err)
	}
	if sessions["2025-01-01_10-00-00"] != "recovered" {
		t.Errorf("session = %q", sessions["2025-01-01_10-00-00"])
	}
}

func TestLastSession(t *testing.T) {
	s := newTestStore(t)
	if _, _, ok := s.LastSession(); ok {
		t.Error("empty archive reported a last session")
	}

	s.SaveSession("2025-01-01_10-00-00", "older")
	s.SaveSession("2025-01-02_09-00-00", "newer")
	start, text, ok := s.LastSession()
	if !ok {
		t.Fatal("expected a last session")
	}
	if start != "2025-01-02_09-00-00" || text != "newer" {
		t.Errorf("last = %q %q", start, text)
	}
}
