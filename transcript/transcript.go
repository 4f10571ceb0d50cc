// Package transcript persists what a session captured.
//
// Two sinks, written at different moments: a flat log that gets one
// timestamped line per typed chunk (so a crash mid-session loses
// nothing already transcribed), and a JSON archive mapping session
// start timestamps to the full session text, amended when a session
// closes.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// TimestampFormat keys sessions and prefixes log lines.
const TimestampFormat = "2006-01-02_15-04-05"

type Store struct {
	archivePath string
	logPath     string
}

func NewStore(archivePath, logPath string) *Store {
	return &Store{archivePath: archivePath, logPath: logPath}
}

// AppendLine appends one chunk to the flat transcript log.
func (s *Store) AppendLine(text string) error {
	f, err := os.OpenFile(s.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening transcript log: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%s - %s\n", time.Now().Format(TimestampFormat), text); err != nil {
		return fmt.Errorf("appending to transcript log: %w", err)
	}
	return nil
}

// SaveSession records a closed session in the JSON archive, keyed by
// its start timestamp. The archive must stay a valid JSON object, so
// it is read, amended and rewritten rather than appended to. An
// unreadable or corrupt archive is replaced rather than treated as
// fatal; the flat log still holds every chunk.
func (s *Store) SaveSession(start, text string) error {
	sessions, err := s.Sessions()
	if err != nil {
		return err
	}
	sessions[start] = text

	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding transcript archive: %w", err)
	}
	if err := os.WriteFile(s.archivePath, data, 0644); err != nil {
		return fmt.Errorf("writing transcript archive: %w", err)
	}
	return nil
}

// Sessions returns the archive contents. A missing or corrupt archive
// yields an empty map.
func (s *Store) Sessions() (map[string]string, error) {
	sessions := make(map[string]string)
	data, err := os.ReadFile(s.archivePath)
	if os.IsNotExist(err) {
		return sessions, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading transcript archive: %w", err)
	}
	if err := json.Unmarshal(data, &sessions); err != nil {
		return make(map[string]string), nil
	}
	return sessions, nil
}

// LastSession returns the most recent session by timestamp key. The
// key format sorts lexicographically in time order.
func (s *Store) LastSession() (start, text string, ok bool) {
	sessions, err := s.Sessions()
	if err != nil || len(sessions) == 0 {
		return "", "", false
	}
	for k := range sessions {
		if k > start {
			start = k
		}
	}
	return start, sessions[start], true
}
