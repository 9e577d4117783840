package testsupport

import (
	"math"
	"testing"

	"babel/internal/audio"
)

// ToneSamples produces a mono sine wave at the given frequency and
// amplitude (as a fraction of full scale for the bit depth).
func ToneSamples(durationMs, sampleRate, bitDepth int, freqHz, amplitude float64) []int {
	frames := durationMs * sampleRate / 1000
	maxAmp := float64(int(1)<<(bitDepth-1) - 1)
	samples := make([]int, frames)
	for i := range samples {
		phase := 2 * math.Pi * freqHz * float64(i) / float64(sampleRate)
		samples[i] = int(amplitude * maxAmp * math.Sin(phase))
	}
	return samples
}

// NewTrack wraps raw mono samples in a Track.
func NewTrack(samples []int, sampleRate, bitDepth int) *audio.Track {
	return &audio.Track{
		Samples:    samples,
		SampleRate: sampleRate,
		Channels:   1,
		BitDepth:   bitDepth,
	}
}

// WriteWAV encodes a track to path, failing the test on error.
func WriteWAV(t testing.TB, path string, track *audio.Track) {
	t.Helper()
	if err := audio.EncodeWAV(path, track); err != nil {
		t.Fatalf("encode wav %s: %v", path, err)
	}
}

// WriteToneWAV writes a mono 16-bit sine tone WAV and returns its track.
func WriteToneWAV(t testing.TB, path string, durationMs, sampleRate int, freqHz, amplitude float64) *audio.Track {
	t.Helper()
	track := NewTrack(ToneSamples(durationMs, sampleRate, 16, freqHz, amplitude), sampleRate, 16)
	WriteWAV(t, path, track)
	return track
}
