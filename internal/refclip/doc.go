// Package refclip selects one reference audio clip per speaker from a
// diarized transcript and the source track, for priming voice cloning.
//
// Selection runs independently per speaker: segments are clamped to
// valid in-track windows, sliced, and scored on an energy-based quality
// estimate (speech ratio, SNR, loudness targeting, duration preference,
// clipping). When a speaker has no single segment long enough, several
// short ones are stitched together with brief silence gaps instead.
// Clips land in <work_dir>/ref_audio/<speaker>.wav with a
// ref_metadata.json sidecar recording mode, score, and reference text.
package refclip
