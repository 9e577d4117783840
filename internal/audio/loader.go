package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Loader decodes source audio of any container into a PCM Track. WAV
// files are read directly; everything else is converted through ffmpeg
// first. Decoding is deterministic, so failures are never retried.
type Loader struct {
	ffmpegBinary  string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewLoader constructs a Loader using the given ffmpeg binary name.
func NewLoader(ffmpegBinary string) *Loader {
	if ffmpegBinary == "" {
		ffmpegBinary = "ffmpeg"
	}
	return &Loader{ffmpegBinary: ffmpegBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (l *Loader) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	l.commandRunner = runner
}

// Load decodes the source file into memory.
func (l *Loader) Load(ctx context.Context, path string) (*Track, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return DecodeWAV(path)
	}

	tmpDir, err := os.MkdirTemp("", "babel-decode-")
	if err != nil {
		return nil, fmt.Errorf("create decode scratch dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	wavPath := filepath.Join(tmpDir, "decoded.wav")
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", path, wavPath}
	if err := l.run(ctx, l.ffmpegBinary, args...); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return DecodeWAV(wavPath)
}

func (l *Loader) run(ctx context.Context, name string, args ...string) error {
	if l.commandRunner != nil {
		return l.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
