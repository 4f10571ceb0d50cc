// Package beep plays short synthesized cues through PulseAudio.
// Everything is fire-and-forget: a missing or broken sound server just
// means silence.
package beep

import (
	"math"
	"sync"

	"github.com/jfreymuth/pulse"
)

const (
	sampleRate = 44100

	// Completion cue: medium pitch, exponential decay.
	completeFreq   = 900
	completeVolume = 0.5
	completeDecay  = 40

	// Error cue: low pitch double-beep.
	errorFreq   = 350
	errorVolume = 0.6
	errorDecay  = 30
)

var (
	completeSamples []int16
	errorSamples    []int16
	soundOnce       sync.Once
)

func initSound() {
	completeSamples = generateTick(completeFreq, 0.2, completeVolume, completeDecay)
	errorSamples = generateDoubleBeep(errorFreq, 0.08, 0.05, errorVolume, errorDecay)
}

func generateTick(freq, duration, volume, decay float64) []int16 {
	n := int(sampleRate * duration)
	samples := make([]int16, n*2)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		envelope := math.Exp(-t * decay)
		s := int16(math.Sin(2*math.Pi*freq*t) * 32767 * volume * envelope)
		samples[i*2] = s
		samples[i*2+1] = s
	}
	return samples
}

func generateDoubleBeep(freq, beepDur, gapDur, volume, decay float64) []int16 {
	beep := generateTick(freq, beepDur, volume, decay)
	gap := make([]int16, int(sampleRate*gapDur)*2)
	result := make([]int16, 0, len(beep)*2+len(gap))
	result = append(result, beep...)
	result = append(result, gap...)
	result = append(result, beep...)
	return result
}

func playSamples(samples []int16) {
	if len(samples) == 0 {
		return
	}
	c, err := pulse.NewClient()
	if err != nil {
		return
	}
	defer c.Close()

	pos := 0
	reader := pulse.Int16Reader(func(buf []int16) (int, error) {
		if pos >= len(samples) {
			return 0, pulse.EndOfData
		}
		n := copy(buf, samples[pos:])
		pos += n
		return n, nil
	})
	stream, err := c.NewPlayback(reader,
		pulse.PlaybackStereo,
		pulse.PlaybackSampleRate(sampleRate),
		pulse.PlaybackLatency(0.1),
	)
	if err != nil {
		return
	}
	stream.Start()
	stream.Drain()
	stream.Stop()
	stream.Close()
}

// PlayComplete marks a session hitting its hard duration ceiling.
func PlayComplete() {
	soundOnce.Do(initSound)
	go playSamples(completeSamples)
}

// PlayError marks a failed session start.
func PlayError() {
	soundOnce.Do(initSound)
	go playSamples(errorSamples)
}

// Cue adapts the package functions to the engine's notification seam.
type Cue struct{}

func (Cue) PlayComplete() { PlayComplete() }
func (Cue) PlayError()    { PlayError() }
