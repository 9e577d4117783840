package audio

import (
	"fmt"
	"os"
	"path/filepath"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV writes the track as a PCM WAV file, preserving its sample
// rate, channel count, and bit depth.
func EncodeWAV(path string, t *Track) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure audio directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create audio file: %w", err)
	}
	defer file.Close()

	encoder := wav.NewEncoder(file, t.SampleRate, t.BitDepth, t.Channels, 1)
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{SampleRate: t.SampleRate, NumChannels: t.Channels},
		Data:           t.Samples,
		SourceBitDepth: t.BitDepth,
	}
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("write audio file: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize audio file: %w", err)
	}
	return file.Close()
}

// EncodeClipWAV exports a clip view without mutating the source track.
func EncodeClipWAV(path string, c Clip) error {
	if c.track == nil {
		return fmt.Errorf("encode clip: empty clip")
	}
	samples := c.Samples()
	out := make([]int, len(samples))
	copy(out, samples)
	return EncodeWAV(path, &Track{
		Samples:    out,
		SampleRate: c.track.SampleRate,
		Channels:   c.track.Channels,
		BitDepth:   c.track.BitDepth,
	})
}
