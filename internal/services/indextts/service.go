package indextts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"babel/internal/segment"
)

// DefaultText is synthesized when a segment carries no usable text.
const DefaultText = "你好"

// ClipsDirName is the work-dir subdirectory holding synthesized clips.
const ClipsDirName = "tts_clips"

// PromptsFileName records the per-speaker clone prompts next to the clips.
const PromptsFileName = "clone_prompts.json"

// ClonePrompt pairs a speaker's reference audio with the transcript text
// spoken in it. The text anchors the voice clone to what the reference
// actually says.
type ClonePrompt struct {
	AudioPath string `json:"audio_path"`
	RefText   string `json:"ref_text"`
}

// Config captures runtime settings for IndexTTS2 synthesis.
type Config struct {
	// IndexTTSDir is a checkout of IndexTTS2 with model weights under
	// checkpoints/.
	IndexTTSDir string
	// ModelDir overrides the checkpoint directory; defaults to
	// <IndexTTSDir>/checkpoints.
	ModelDir string
}

// Service synthesizes Chinese speech through the IndexTTS2 CLI with
// per-speaker voice cloning.
type Service struct {
	cfg           Config
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates an IndexTTS2 service with the given configuration.
func NewService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// CheckInstall verifies the configured IndexTTS2 checkout looks usable.
func (s *Service) CheckInstall() error {
	if strings.TrimSpace(s.cfg.IndexTTSDir) == "" {
		return fmt.Errorf("indextts: tts.index_tts_dir not configured")
	}
	info, err := os.Stat(s.cfg.IndexTTSDir)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("indextts: checkout %s not found", s.cfg.IndexTTSDir)
	}
	return nil
}

// SegmentText returns the text to synthesize for a segment, preferring
// the translation, then the source text, then DefaultText.
func SegmentText(seg segment.Segment) string {
	if text := strings.TrimSpace(seg.TextZH); text != "" {
		return text
	}
	if text := strings.TrimSpace(seg.Text); text != "" {
		return text
	}
	return DefaultText
}

// DefaultPrompt picks the fallback clone prompt used for speakers
// missing from the mapping. Selection is by sorted speaker label so the
// result is stable across runs.
func DefaultPrompt(prompts map[string]ClonePrompt) (ClonePrompt, bool) {
	if len(prompts) == 0 {
		return ClonePrompt{}, false
	}
	speakers := make([]string, 0, len(prompts))
	for speaker := range prompts {
		speakers = append(speakers, speaker)
	}
	sort.Strings(speakers)
	return prompts[speakers[0]], true
}

// Synthesize renders every segment to <workDir>/tts_clips/seg_%04d.wav
// and returns the clip paths in segment order. The clone prompts are
// persisted to clone_prompts.json in the same directory.
func (s *Service) Synthesize(ctx context.Context, segments []segment.Segment, prompts map[string]ClonePrompt, workDir string) ([]string, error) {
	if err := s.CheckInstall(); err != nil {
		return nil, err
	}
	defaultPrompt, ok := DefaultPrompt(prompts)
	if !ok {
		return nil, fmt.Errorf("indextts: no reference audio available for voice cloning")
	}

	outDir := filepath.Join(workDir, ClipsDirName)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("indextts: ensure clip dir: %w", err)
	}
	if err := writePrompts(filepath.Join(outDir, PromptsFileName), prompts); err != nil {
		return nil, err
	}

	clipPaths := make([]string, 0, len(segments))
	for i, seg := range segments {
		prompt, ok := prompts[seg.Speaker]
		if !ok {
			prompt = defaultPrompt
		}
		outPath := filepath.Join(outDir, fmt.Sprintf("seg_%04d.wav", i))
		if err := s.inferOne(ctx, SegmentText(seg), prompt.AudioPath, outPath); err != nil {
			return nil, fmt.Errorf("indextts: segment %d: %w", i, err)
		}
		clipPaths = append(clipPaths, outPath)
	}
	return clipPaths, nil
}

func writePrompts(path string, prompts map[string]ClonePrompt) error {
	data, err := json.MarshalIndent(prompts, "", "  ")
	if err != nil {
		return fmt.Errorf("indextts: encode clone prompts: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("indextts: write clone prompts: %w", err)
	}
	return nil
}

func (s *Service) inferOne(ctx context.Context, text, refPath, outPath string) error {
	modelDir := s.cfg.ModelDir
	if modelDir == "" {
		modelDir = filepath.Join(s.cfg.IndexTTSDir, "checkpoints")
	}
	args := []string{
		"run", "--project", s.cfg.IndexTTSDir,
		"indextts",
		text,
		"--voice", refPath,
		"--model_dir", modelDir,
		"--config", filepath.Join(modelDir, "config.yaml"),
		"--output", outPath,
	}
	return s.run(ctx, "uv", args...)
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
