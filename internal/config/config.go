package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkDir   string `toml:"work_dir"`
	OutputDir string `toml:"output_dir"`
	LogDir    string `toml:"log_dir"`
	QueueDB   string `toml:"queue_db"`
}

// WhisperX contains configuration for transcription and diarization.
type WhisperX struct {
	Model            string `toml:"model"`
	Language         string `toml:"language"`
	CUDAEnabled      bool   `toml:"cuda_enabled"`
	VADMethod        string `toml:"vad_method"`
	HuggingFaceToken string `toml:"hf_token"`
	CacheDir         string `toml:"cache_dir"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
}

// Translation contains configuration for the EN to ZH chat-completions
// translator. Provider presets fill BaseURL, Model, and the API key
// environment variable when the fields are left empty.
type Translation struct {
	Provider       string  `toml:"provider"`
	APIKey         string  `toml:"api_key"`
	BaseURL        string  `toml:"base_url"`
	Model          string  `toml:"model"`
	Temperature    float64 `toml:"temperature"`
	BatchSize      int     `toml:"batch_size"`
	MaxRetries     int     `toml:"max_retries"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// TTS contains configuration for IndexTTS2 voice-clone synthesis.
type TTS struct {
	IndexTTSDir    string `toml:"index_tts_dir"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// RefClip contains the scoring weights and thresholds for reference-clip
// selection. Zero values fall back to the shipped defaults during
// normalization.
type RefClip struct {
	MinClipSeconds      float64 `toml:"min_clip_seconds"`
	MaxClipSeconds      float64 `toml:"max_clip_seconds"`
	ComposeGapMS        int     `toml:"compose_gap_ms"`
	FrameMS             int     `toml:"frame_ms"`
	HopMS               int     `toml:"hop_ms"`
	SilenceFloorDBFS    float64 `toml:"silence_floor_dbfs"`
	SpeechMarginDB      float64 `toml:"speech_margin_db"`
	SpeechFloorDBFS     float64 `toml:"speech_floor_dbfs"`
	SpeechHeadroomDB    float64 `toml:"speech_headroom_db"`
	SNRLowDB            float64 `toml:"snr_low_db"`
	SNRHighDB           float64 `toml:"snr_high_db"`
	LoudnessTargetDBFS  float64 `toml:"loudness_target_dbfs"`
	LoudnessWindowDB    float64 `toml:"loudness_window_db"`
	ClipLevelRatio      float64 `toml:"clip_level_ratio"`
	ClipSaturationRatio float64 `toml:"clip_saturation_ratio"`
	SpeechWeight        float64 `toml:"speech_weight"`
	SNRWeight           float64 `toml:"snr_weight"`
	LoudnessWeight      float64 `toml:"loudness_weight"`
	DurationWeight      float64 `toml:"duration_weight"`
	ClipWeight          float64 `toml:"clip_weight"`
	ShortClipSeconds    float64 `toml:"short_clip_seconds"`
	ShortClipPenalty    float64 `toml:"short_clip_penalty"`
	LowSpeechRatio      float64 `toml:"low_speech_ratio"`
	LowSpeechPenalty    float64 `toml:"low_speech_penalty"`
}

// Concat contains configuration for final timeline assembly.
type Concat struct {
	MinGapMS int `toml:"min_gap_ms"`
	MaxGapMS int `toml:"max_gap_ms"`
	// FixedGapMS, when positive, replaces timeline-derived pauses with
	// a constant gap between every pair of segments.
	FixedGapMS int    `toml:"fixed_gap_ms"`
	Bitrate    string `toml:"bitrate"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the dubbing pipeline.
//
// Configuration sections by subsystem:
//   - Paths: work/output/log directories and the queue database
//   - WhisperX: transcription and diarization settings
//   - Translation: chat-completions provider, model, batching
//   - TTS: IndexTTS2 checkout location and timeouts
//   - RefClip: reference-clip scoring weights and thresholds
//   - Concat: inter-segment gap clamping and MP3 export bitrate
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	WhisperX    WhisperX    `toml:"whisperx"`
	Translation Translation `toml:"translation"`
	TTS         TTS         `toml:"tts"`
	RefClip     RefClip     `toml:"refclip"`
	Concat      Concat      `toml:"concat"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/babel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/babel/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("babel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline needs to run.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// QueueDBPath returns the resolved queue database location.
func (c *Config) QueueDBPath() string {
	if strings.TrimSpace(c.Paths.QueueDB) != "" {
		return c.Paths.QueueDB
	}
	return filepath.Join(c.Paths.WorkDir, "queue.db")
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// UvxBinary returns the uvx executable used to launch whisperx.
func (c *Config) UvxBinary() string {
	return "uvx"
}

// YtDlpBinary returns the yt-dlp executable name.
func (c *Config) YtDlpBinary() string {
	return "yt-dlp"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
