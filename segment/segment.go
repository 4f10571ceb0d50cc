// Package segment parses the whisper server's streaming line protocol.
//
// The server writes one line per finalized chunk:
//
//	<start_ms> <end_ms>  <text>
//
// with a two-space separator between the millisecond pair and the text.
// Anything that does not match is protocol noise and is dropped.
package segment

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Segment is one finalized chunk of transcribed text.
type Segment struct {
	StartMS uint64
	EndMS   uint64
	Text    string

	// Key is the raw timestamp prefix exactly as the server sent it.
	// Dedup is keyed on this string, not on the parsed pair, so a
	// resent segment with a refined end time counts as a new segment.
	Key string
}

// Duration returns the chunk length in seconds.
func (s Segment) Duration() float64 {
	return float64(s.EndMS-s.StartMS) / 1000
}

// StartTime returns the chunk's offset into the recording in seconds.
func (s Segment) StartTime() float64 {
	return float64(s.StartMS) / 1000
}

// ParseLine parses one protocol line. ok is false for noise: a missing
// two-space separator, a timestamp pair that is not exactly two fields,
// or a field that is not an unsigned integer.
func ParseLine(line string) (Segment, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Segment{}, false
	}

	parts := strings.SplitN(line, "  ", 2)
	if len(parts) != 2 {
		return Segment{}, false
	}

	fields := strings.Fields(parts[0])
	if len(fields) != 2 {
		return Segment{}, false
	}
	start, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return Segment{}, false
	}
	end, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return Segment{}, false
	}

	return Segment{
		StartMS: start,
		EndMS:   end,
		Text:    parts[1],
		Key:     parts[0],
	}, true
}

// Reader consumes the relay's stdout line by line, deduplicates repeats
// and emits segments in arrival order. The dedup set lives for one
// session; a new session gets a fresh Reader. It is owned by the single
// goroutine running Run and needs no locking.
type Reader struct {
	seen map[string]struct{}
}

func NewReader() *Reader {
	return &Reader{seen: make(map[string]struct{})}
}

// Run blocks reading src until the stream closes, a read fails, or
// active reports false. Read errors end the loop silently; the caller
// learns the session is over through the process lifecycle, not from
// here. The server resends in-progress segments as they extend, so a
// timestamp key already seen this session is dropped.
func (r *Reader) Run(src io.Reader, active func() bool, emit func(Segment)) {
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		if !active() {
			return
		}
		seg, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		if _, dup := r.seen[seg.Key]; dup {
			continue
		}
		r.seen[seg.Key] = struct{}{}
		emit(seg)
	}
}
