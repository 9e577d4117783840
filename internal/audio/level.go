package audio

import "math"

// DBFS returns the clip's RMS level in decibels relative to full scale.
// Digital silence measures -Inf, matching the convention that non-finite
// levels represent an absence of signal rather than an error.
func (c Clip) DBFS() float64 {
	samples := c.Samples()
	if len(samples) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	if rms <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms/float64(c.MaxAmplitude()))
}

// FrameProfile slices the clip into frameMs windows advanced by hopMs and
// returns the per-frame dBFS levels in order. Clips shorter than one frame
// produce a single whole-clip measurement. When the final hop does not
// land exactly on the end of the clip, one extra frame covers the tail.
func FrameProfile(c Clip, frameMs, hopMs int) []float64 {
	clipMs := c.Milliseconds()
	if clipMs <= 0 {
		return nil
	}
	if frameMs <= 0 || hopMs <= 0 || clipMs <= frameMs {
		return []float64{c.DBFS()}
	}

	lastStart := clipMs - frameMs
	levels := make([]float64, 0, lastStart/hopMs+2)
	for pos := 0; pos <= lastStart; pos += hopMs {
		levels = append(levels, c.SubMS(pos, pos+frameMs).DBFS())
	}
	if len(levels) > 0 && lastStart > 0 && lastStart%hopMs != 0 {
		levels = append(levels, c.SubMS(lastStart, lastStart+frameMs).DBFS())
	}
	return levels
}
