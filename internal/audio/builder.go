package audio

// Builder assembles a new Track from clip views and inserted silence.
// All appended clips must share the builder's format; the reference-clip
// composer and the final concatenation stage both build output this way.
type Builder struct {
	sampleRate int
	channels   int
	bitDepth   int
	samples    []int
}

// NewBuilder creates a Builder producing tracks in the given PCM format.
func NewBuilder(sampleRate, channels, bitDepth int) *Builder {
	return &Builder{sampleRate: sampleRate, channels: channels, bitDepth: bitDepth}
}

// NewBuilderFor creates a Builder matching an existing track's format.
func NewBuilderFor(t *Track) *Builder {
	return NewBuilder(t.SampleRate, t.Channels, t.BitDepth)
}

// AppendClip copies the clip's samples onto the end of the output.
func (b *Builder) AppendClip(c Clip) {
	b.samples = append(b.samples, c.Samples()...)
}

// AppendSilence appends ms of digital silence.
func (b *Builder) AppendSilence(ms int) {
	if ms <= 0 {
		return
	}
	frames := ms * b.sampleRate / 1000
	b.samples = append(b.samples, make([]int, frames*b.channels)...)
}

// Len returns the appended length in milliseconds.
func (b *Builder) Len() int {
	if b.sampleRate <= 0 || b.channels <= 0 {
		return 0
	}
	return len(b.samples) / b.channels * 1000 / b.sampleRate
}

// Track finalizes the assembled audio.
func (b *Builder) Track() *Track {
	return &Track{
		Samples:    b.samples,
		SampleRate: b.sampleRate,
		Channels:   b.channels,
		BitDepth:   b.bitDepth,
	}
}
