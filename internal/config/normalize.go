package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeWhisperX(); err != nil {
		return err
	}
	c.normalizeTranslation()
	if err := c.normalizeTTS(); err != nil {
		return err
	}
	c.normalizeRefClip()
	c.normalizeConcat()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.QueueDB) != "" {
		if c.Paths.QueueDB, err = expandPath(c.Paths.QueueDB); err != nil {
			return fmt.Errorf("paths.queue_db: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeWhisperX() error {
	c.WhisperX.Model = strings.TrimSpace(c.WhisperX.Model)
	if c.WhisperX.Model == "" {
		c.WhisperX.Model = defaultWhisperXModel
	}
	c.WhisperX.Language = strings.ToLower(strings.TrimSpace(c.WhisperX.Language))
	if c.WhisperX.Language == "" {
		c.WhisperX.Language = defaultWhisperXLang
	}
	c.WhisperX.VADMethod = strings.ToLower(strings.TrimSpace(c.WhisperX.VADMethod))
	if c.WhisperX.VADMethod == "" {
		c.WhisperX.VADMethod = defaultWhisperXVAD
	}
	c.WhisperX.HuggingFaceToken = strings.TrimSpace(c.WhisperX.HuggingFaceToken)
	if c.WhisperX.HuggingFaceToken == "" {
		if value, ok := os.LookupEnv("HUGGING_FACE_HUB_TOKEN"); ok {
			c.WhisperX.HuggingFaceToken = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			c.WhisperX.HuggingFaceToken = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.WhisperX.CacheDir) == "" {
		c.WhisperX.CacheDir = defaultWhisperXCache
	}
	var err error
	if c.WhisperX.CacheDir, err = expandPath(c.WhisperX.CacheDir); err != nil {
		return fmt.Errorf("whisperx.cache_dir: %w", err)
	}
	if c.WhisperX.TimeoutSeconds <= 0 {
		c.WhisperX.TimeoutSeconds = defaultWhisperXTimeout
	}
	return nil
}

func (c *Config) normalizeTranslation() {
	c.Translation.Provider = strings.ToLower(strings.TrimSpace(c.Translation.Provider))
	if c.Translation.Provider == "" {
		c.Translation.Provider = ProviderDeepSeek
	}
	c.Translation.BaseURL = strings.TrimSpace(c.Translation.BaseURL)
	c.Translation.Model = strings.TrimSpace(c.Translation.Model)
	c.Translation.APIKey = strings.TrimSpace(c.Translation.APIKey)

	switch c.Translation.Provider {
	case ProviderDeepSeek:
		if c.Translation.BaseURL == "" {
			c.Translation.BaseURL = defaultDeepSeekBaseURL
		}
		if c.Translation.Model == "" {
			c.Translation.Model = defaultDeepSeekModel
		}
		if c.Translation.APIKey == "" {
			if value, ok := os.LookupEnv("DEEPSEEK_API_KEY"); ok {
				c.Translation.APIKey = strings.TrimSpace(value)
			}
		}
	case ProviderOpenAI:
		if c.Translation.BaseURL == "" {
			c.Translation.BaseURL = defaultOpenAIBaseURL
		}
		if c.Translation.Model == "" {
			c.Translation.Model = defaultOpenAIModel
		}
		if c.Translation.APIKey == "" {
			if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
				c.Translation.APIKey = strings.TrimSpace(value)
			}
		}
	}

	if c.Translation.BatchSize <= 0 {
		c.Translation.BatchSize = defaultTranslationBatch
	}
	if c.Translation.MaxRetries < 0 {
		c.Translation.MaxRetries = defaultTranslationRetries
	}
	if c.Translation.TimeoutSeconds <= 0 {
		c.Translation.TimeoutSeconds = defaultTranslationTimeout
	}
}

func (c *Config) normalizeTTS() error {
	c.TTS.IndexTTSDir = strings.TrimSpace(c.TTS.IndexTTSDir)
	if c.TTS.IndexTTSDir != "" {
		var err error
		if c.TTS.IndexTTSDir, err = expandPath(c.TTS.IndexTTSDir); err != nil {
			return fmt.Errorf("tts.index_tts_dir: %w", err)
		}
	}
	if c.TTS.TimeoutSeconds <= 0 {
		c.TTS.TimeoutSeconds = defaultSynthesisTimeout
	}
	return nil
}

func (c *Config) normalizeRefClip() {
	r := &c.RefClip
	if r.MinClipSeconds <= 0 {
		r.MinClipSeconds = defaultRefMinClipSeconds
	}
	if r.MaxClipSeconds <= 0 {
		r.MaxClipSeconds = defaultRefMaxClipSeconds
	}
	if r.ComposeGapMS <= 0 {
		r.ComposeGapMS = defaultRefComposeGapMS
	}
	if r.FrameMS <= 0 {
		r.FrameMS = defaultRefFrameMS
	}
	if r.HopMS <= 0 {
		r.HopMS = defaultRefHopMS
	}
	if r.SilenceFloorDBFS == 0 {
		r.SilenceFloorDBFS = defaultRefSilenceFloor
	}
	if r.SpeechMarginDB <= 0 {
		r.SpeechMarginDB = defaultRefSpeechMargin
	}
	if r.SpeechFloorDBFS == 0 {
		r.SpeechFloorDBFS = defaultRefSpeechFloor
	}
	if r.SpeechHeadroomDB <= 0 {
		r.SpeechHeadroomDB = defaultRefSpeechHeadroom
	}
	if r.SNRLowDB <= 0 {
		r.SNRLowDB = defaultRefSNRLow
	}
	if r.SNRHighDB <= 0 {
		r.SNRHighDB = defaultRefSNRHigh
	}
	if r.LoudnessTargetDBFS == 0 {
		r.LoudnessTargetDBFS = defaultRefLoudnessTarget
	}
	if r.LoudnessWindowDB <= 0 {
		r.LoudnessWindowDB = defaultRefLoudnessWindow
	}
	if r.ClipLevelRatio <= 0 {
		r.ClipLevelRatio = defaultRefClipLevelRatio
	}
	if r.ClipSaturationRatio <= 0 {
		r.ClipSaturationRatio = defaultRefClipSaturation
	}
	if r.SpeechWeight <= 0 {
		r.SpeechWeight = defaultRefSpeechWeight
	}
	if r.SNRWeight <= 0 {
		r.SNRWeight = defaultRefSNRWeight
	}
	if r.LoudnessWeight <= 0 {
		r.LoudnessWeight = defaultRefLoudnessWeight
	}
	if r.DurationWeight <= 0 {
		r.DurationWeight = defaultRefDurationWeight
	}
	if r.ClipWeight <= 0 {
		r.ClipWeight = defaultRefClipWeight
	}
	if r.ShortClipSeconds <= 0 {
		r.ShortClipSeconds = defaultRefShortClipSeconds
	}
	if r.ShortClipPenalty <= 0 {
		r.ShortClipPenalty = defaultRefShortClipPenalty
	}
	if r.LowSpeechRatio <= 0 {
		r.LowSpeechRatio = defaultRefLowSpeechRatio
	}
	if r.LowSpeechPenalty <= 0 {
		r.LowSpeechPenalty = defaultRefLowSpeechPenalty
	}
}

func (c *Config) normalizeConcat() {
	if c.Concat.MinGapMS <= 0 {
		c.Concat.MinGapMS = defaultConcatMinGapMS
	}
	if c.Concat.MaxGapMS <= 0 {
		c.Concat.MaxGapMS = defaultConcatMaxGapMS
	}
	c.Concat.Bitrate = strings.TrimSpace(c.Concat.Bitrate)
	if c.Concat.Bitrate == "" {
		c.Concat.Bitrate = defaultConcatBitrate
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
