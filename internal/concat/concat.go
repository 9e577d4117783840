package concat

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"babel/internal/audio"
	"babel/internal/segment"
)

// Settings controls gap clamping and MP3 export.
type Settings struct {
	// MinGapMS is the shortest pause inserted between segments.
	MinGapMS int
	// MaxGapMS caps long silences from the original timeline.
	MaxGapMS int
	// FixedGapMS, when positive, inserts the same pause between every
	// pair of segments instead of following the original timing.
	FixedGapMS int
	// Bitrate is the MP3 export bitrate (e.g. "192k").
	Bitrate string
}

// Assembler stitches synthesized clips into the final episode MP3,
// preserving the original inter-segment pauses within clamped bounds.
type Assembler struct {
	settings      Settings
	ffmpegBinary  string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewAssembler creates an Assembler with the given settings.
func NewAssembler(settings Settings, ffmpegBinary string) *Assembler {
	if settings.MinGapMS <= 0 {
		settings.MinGapMS = 100
	}
	if settings.MaxGapMS <= 0 {
		settings.MaxGapMS = 3000
	}
	if settings.Bitrate == "" {
		settings.Bitrate = "192k"
	}
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Assembler{settings: settings, ffmpegBinary: ffmpegBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (a *Assembler) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	a.commandRunner = runner
}

// GapMS returns the silence to insert between two adjacent segments:
// the fixed gap when configured, otherwise the clamped pause from the
// original timeline.
func (a *Assembler) GapMS(prev, next segment.Segment) int {
	if a.settings.FixedGapMS > 0 {
		return a.settings.FixedGapMS
	}
	gap := int((next.Start - prev.End) * 1000)
	if gap < a.settings.MinGapMS {
		gap = a.settings.MinGapMS
	}
	if gap > a.settings.MaxGapMS {
		gap = a.settings.MaxGapMS
	}
	return gap
}

// BuildTrack decodes the synthesized clips and assembles them with gaps
// derived from the original segment timing. The clip and segment slices
// must be the same length and order.
func (a *Assembler) BuildTrack(clipPaths []string, segments []segment.Segment) (*audio.Track, error) {
	if len(clipPaths) == 0 {
		return nil, fmt.Errorf("concat: no clips to assemble")
	}
	if len(clipPaths) != len(segments) {
		return nil, fmt.Errorf("concat: %d clips for %d segments", len(clipPaths), len(segments))
	}

	var builder *audio.Builder
	for i, path := range clipPaths {
		track, err := audio.DecodeWAV(path)
		if err != nil {
			return nil, fmt.Errorf("concat: decode clip %d: %w", i, err)
		}
		if builder == nil {
			builder = audio.NewBuilderFor(track)
		}
		if i > 0 {
			builder.AppendSilence(a.GapMS(segments[i-1], segments[i]))
		}
		builder.AppendClip(track.ClipMS(0, track.Milliseconds()))
	}
	return builder.Track(), nil
}

// Assemble builds the full track and exports it as MP3 to outputPath.
func (a *Assembler) Assemble(ctx context.Context, clipPaths []string, segments []segment.Segment, outputPath string) error {
	track, err := a.BuildTrack(clipPaths, segments)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("concat: ensure output dir: %w", err)
		}
	}

	wavPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".tmp.wav"
	if err := audio.EncodeWAV(wavPath, track); err != nil {
		return fmt.Errorf("concat: write assembled wav: %w", err)
	}
	defer os.Remove(wavPath)

	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", wavPath,
		"-b:a", a.settings.Bitrate,
		outputPath,
	}
	if err := a.run(ctx, a.ffmpegBinary, args...); err != nil {
		return fmt.Errorf("concat: mp3 export: %w", err)
	}
	return nil
}

func (a *Assembler) run(ctx context.Context, name string, args ...string) error {
	if a.commandRunner != nil {
		return a.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
