package refclip

// Tuning collects the scoring weights and thresholds for reference-clip
// selection. The defaults mirror the values the pipeline ships with, but
// they are tuning knobs rather than invariants, so tests and future
// retuning can swap them through configuration.
type Tuning struct {
	// Selection windows.
	MinSingleSeconds float64 // shortest acceptable single-segment reference
	MaxSeconds       float64 // hard cap for any reference clip

	// Composition fallback.
	ComposeGapMs int // silence inserted between stitched pieces

	// Frame analysis.
	FrameMs int
	HopMs   int

	// Loudness floors and speech classification.
	SilenceFloorDBFS float64 // non-finite frame levels floor here
	SpeechMarginDB   float64 // speech threshold above the noise floor
	SpeechFloorDBFS  float64 // absolute lower bound for the speech threshold
	SpeechHeadroomDB float64 // threshold ceiling below the loudest frame

	// SNR scoring window.
	SNRLowDB  float64
	SNRHighDB float64

	// Loudness targeting.
	LoudnessTargetDBFS float64
	LoudnessWindowDB   float64

	// Clipping detection.
	ClipLevelRatio      float64 // fraction of full scale that counts as clipped
	ClipSaturationRatio float64 // clip ratio at which the penalty saturates

	// Composite weights.
	SpeechWeight   float64
	SNRWeight      float64
	LoudnessWeight float64
	DurationWeight float64
	ClipWeight     float64

	// Additive penalties.
	ShortClipSeconds float64
	ShortClipPenalty float64
	LowSpeechRatio   float64
	LowSpeechPenalty float64
}

// DefaultTuning returns the shipped tuning values.
func DefaultTuning() Tuning {
	return Tuning{
		MinSingleSeconds:    3.0,
		MaxSeconds:          10.0,
		ComposeGapMs:        50,
		FrameMs:             50,
		HopMs:               25,
		SilenceFloorDBFS:    -90.0,
		SpeechMarginDB:      6.0,
		SpeechFloorDBFS:     -45.0,
		SpeechHeadroomDB:    2.0,
		SNRLowDB:            6.0,
		SNRHighDB:           24.0,
		LoudnessTargetDBFS:  -19.0,
		LoudnessWindowDB:    12.0,
		ClipLevelRatio:      0.995,
		ClipSaturationRatio: 0.01,
		SpeechWeight:        0.35,
		SNRWeight:           0.25,
		LoudnessWeight:      0.15,
		DurationWeight:      0.15,
		ClipWeight:          0.25,
		ShortClipSeconds:    1.2,
		ShortClipPenalty:    0.25,
		LowSpeechRatio:      0.25,
		LowSpeechPenalty:    0.25,
	}
}
