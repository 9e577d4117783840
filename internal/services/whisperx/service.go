package whisperx

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	langpkg "babel/internal/language"
	"babel/internal/segment"
)

// Service provides WhisperX transcription plus speaker diarization.
type Service struct {
	cfg           Config
	ffmpegBinary  string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX service with the given configuration.
func NewService(cfg Config, ffmpegBinary string) *Service {
	if ffmpegBinary == "" {
		ffmpegBinary = FFmpegCommand
	}
	return &Service{
		cfg:          cfg,
		ffmpegBinary: ffmpegBinary,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	if s.cfg.Model != "" {
		return s.cfg.Model
	}
	return DefaultModel
}

// DiarizationEnabled reports whether speaker diarization will run.
// Diarization needs a Hugging Face token for the pyannote pipeline.
func (s *Service) DiarizationEnabled() bool {
	return s.cfg.HFToken != ""
}

// ExtractFullAudio converts the source media into a mono 16 kHz WAV
// suitable for WhisperX.
func (s *Service) ExtractFullAudio(ctx context.Context, source, dest string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	return s.run(ctx, s.ffmpegBinary, args...)
}

// Transcribe runs WhisperX over the prepared WAV and returns validated,
// speaker-labeled segments. Segments carry FallbackSpeaker when
// diarization is disabled.
func (s *Service) Transcribe(ctx context.Context, source, outputDir string) ([]segment.Segment, error) {
	if source == "" {
		return nil, fmt.Errorf("transcribe: source path required")
	}
	if outputDir == "" {
		outputDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	args := s.buildArgs(source, outputDir)
	if err := s.run(ctx, UVXCommand, args...); err != nil {
		return nil, fmt.Errorf("whisperx: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	segments, err := LoadSegments(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("whisperx output: %w", err)
	}
	return segments, nil
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec

	// Torch 2.6 changed torch.load default to weights_only=true, breaking
	// WhisperX/pyannote. Force legacy behavior so checkpoints still load.
	env := os.Environ()
	if os.Getenv("TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD") == "" {
		env = append(env, "TORCH_FORCE_NO_WEIGHTS_ONLY_LOAD=1")
	}
	if s.cfg.CacheDir != "" {
		env = append(env, "HF_HOME="+s.cfg.CacheDir)
	}
	cmd.Env = env

	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildArgs constructs the uvx command arguments for WhisperX.
func (s *Service) buildArgs(source, outputDir string) []string {
	args := make([]string, 0, 32)

	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	model := s.cfg.Model
	if model == "" {
		model = DefaultModel
	}

	args = append(args,
		"whisperx",
		source,
		"--model", model,
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--segment_resolution", SegmentResolution,
	)

	vadMethod := s.cfg.VADMethod
	if vadMethod == "" {
		vadMethod = VADMethodSilero
	}
	args = append(args, "--vad_method", vadMethod)

	if s.DiarizationEnabled() {
		args = append(args, "--diarize", "--hf_token", s.cfg.HFToken)
	}

	if lang := langpkg.ToISO2(s.cfg.Language); lang != "" {
		args = append(args, "--language", lang)
	}

	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}

	return args
}

type rawSegment struct {
	Text    string  `json:"text"`
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Speaker string  `json:"speaker"`
}

type payload struct {
	Segments []rawSegment `json:"segments"`
}

// LoadSegments loads speaker-labeled segments from a WhisperX JSON file.
// Segments without a diarization label fall back to FallbackSpeaker;
// segments without usable text or timing are dropped.
func LoadSegments(jsonPath string) ([]segment.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var doc payload
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse whisperx json: %w", err)
	}

	segments := make([]segment.Segment, 0, len(doc.Segments))
	for _, raw := range doc.Segments {
		speaker := strings.TrimSpace(raw.Speaker)
		if speaker == "" {
			speaker = FallbackSpeaker
		}
		seg := segment.Segment{
			Start:   raw.Start,
			End:     raw.End,
			Text:    strings.TrimSpace(raw.Text),
			Speaker: speaker,
		}
		if seg.Validate() != nil {
			continue
		}
		segments = append(segments, seg)
	}
	return segments, nil
}
