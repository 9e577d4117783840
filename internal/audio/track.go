package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// Track holds a fully decoded PCM stream. Samples are interleaved across
// channels. A Track is owned by one pipeline invocation and is read-only;
// Clip views share the backing slice and never copy until export.
type Track struct {
	Samples    []int
	SampleRate int
	Channels   int
	BitDepth   int
}

// DecodeWAV reads an entire WAV file into memory.
func DecodeWAV(path string) (*Track, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("decode audio %s: not a valid WAV file", path)
	}
	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode audio %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("decode audio %s: missing PCM format", path)
	}

	bitDepth := int(buf.SourceBitDepth)
	if bitDepth <= 0 {
		bitDepth = 16
	}
	return &Track{
		Samples:    buf.Data,
		SampleRate: buf.Format.SampleRate,
		Channels:   buf.Format.NumChannels,
		BitDepth:   bitDepth,
	}, nil
}

// Frames returns the number of per-channel sample frames.
func (t *Track) Frames() int {
	if t == nil || t.Channels <= 0 {
		return 0
	}
	return len(t.Samples) / t.Channels
}

// Milliseconds returns the track length at millisecond granularity.
func (t *Track) Milliseconds() int {
	if t == nil || t.SampleRate <= 0 {
		return 0
	}
	return t.Frames() * 1000 / t.SampleRate
}

// Seconds returns the track duration in seconds.
func (t *Track) Seconds() float64 {
	if t == nil || t.SampleRate <= 0 {
		return 0
	}
	return float64(t.Frames()) / float64(t.SampleRate)
}

// MaxAmplitude returns the largest representable sample magnitude for the
// track's bit depth.
func (t *Track) MaxAmplitude() int {
	depth := t.BitDepth
	if depth <= 0 || depth > 32 {
		depth = 16
	}
	return (1 << (depth - 1)) - 1
}

// ClipMS returns a read-only view over [startMs, endMs). Bounds are
// clamped to the track; an inverted range yields an empty clip.
func (t *Track) ClipMS(startMs, endMs int) Clip {
	total := t.Frames()
	start := t.frameAt(startMs)
	end := t.frameAt(endMs)
	if start < 0 {
		start = 0
	}
	if end > total {
		end = total
	}
	if end < start {
		end = start
	}
	return Clip{track: t, start: start, end: end}
}

func (t *Track) frameAt(ms int) int {
	return ms * t.SampleRate / 1000
}

// Clip is a sub-range view of a Track measured in per-channel frames.
type Clip struct {
	track *Track
	start int
	end   int
}

// Samples returns the interleaved samples backing the clip. The slice
// aliases the track; callers must not mutate it.
func (c Clip) Samples() []int {
	if c.track == nil {
		return nil
	}
	return c.track.Samples[c.start*c.track.Channels : c.end*c.track.Channels]
}

// Frames returns the number of per-channel frames in the clip.
func (c Clip) Frames() int { return c.end - c.start }

// Milliseconds returns the clip length at millisecond granularity.
func (c Clip) Milliseconds() int {
	if c.track == nil || c.track.SampleRate <= 0 {
		return 0
	}
	return c.Frames() * 1000 / c.track.SampleRate
}

// Seconds returns the clip duration in seconds.
func (c Clip) Seconds() float64 {
	if c.track == nil || c.track.SampleRate <= 0 {
		return 0
	}
	return float64(c.Frames()) / float64(c.track.SampleRate)
}

// MaxAmplitude returns the full-scale magnitude of the underlying track.
func (c Clip) MaxAmplitude() int {
	if c.track == nil {
		return (1 << 15) - 1
	}
	return c.track.MaxAmplitude()
}

// SubMS returns a view over [startMs, endMs) measured from the clip start.
func (c Clip) SubMS(startMs, endMs int) Clip {
	if c.track == nil {
		return c
	}
	start := c.start + c.track.frameAt(startMs)
	end := c.start + c.track.frameAt(endMs)
	if start < c.start {
		start = c.start
	}
	if end > c.end {
		end = c.end
	}
	if end < start {
		end = start
	}
	return Clip{track: c.track, start: start, end: end}
}
