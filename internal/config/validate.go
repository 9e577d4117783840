package config

import (
	"fmt"
)

// Validate ensures the configuration is usable. Credentials for optional
// stages are checked by the stages that need them, not here, so partial
// pipelines keep working.
func (c *Config) Validate() error {
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateRefClip(); err != nil {
		return err
	}
	if err := c.validateConcat(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranslation() error {
	switch c.Translation.Provider {
	case ProviderDeepSeek, ProviderOpenAI:
	default:
		return fmt.Errorf("translation.provider: unknown provider %q", c.Translation.Provider)
	}
	if c.Translation.BatchSize > 100 {
		return fmt.Errorf("translation.batch_size: %d exceeds maximum of 100", c.Translation.BatchSize)
	}
	if c.Translation.Temperature < 0 || c.Translation.Temperature > 2 {
		return fmt.Errorf("translation.temperature: %v outside [0, 2]", c.Translation.Temperature)
	}
	return nil
}

func (c *Config) validateRefClip() error {
	r := c.RefClip
	if r.MinClipSeconds >= r.MaxClipSeconds {
		return fmt.Errorf("refclip.min_clip_seconds: %v must be below max_clip_seconds %v", r.MinClipSeconds, r.MaxClipSeconds)
	}
	if r.HopMS > r.FrameMS {
		return fmt.Errorf("refclip.hop_ms: %d must not exceed frame_ms %d", r.HopMS, r.FrameMS)
	}
	if r.SNRLowDB >= r.SNRHighDB {
		return fmt.Errorf("refclip.snr_low_db: %v must be below snr_high_db %v", r.SNRLowDB, r.SNRHighDB)
	}
	if r.ClipLevelRatio > 1 {
		return fmt.Errorf("refclip.clip_level_ratio: %v exceeds full scale", r.ClipLevelRatio)
	}
	if r.LoudnessTargetDBFS > 0 {
		return fmt.Errorf("refclip.loudness_target_dbfs: %v must not be positive", r.LoudnessTargetDBFS)
	}
	return nil
}

func (c *Config) validateConcat() error {
	if c.Concat.MinGapMS > c.Concat.MaxGapMS {
		return fmt.Errorf("concat.min_gap_ms: %d exceeds max_gap_ms %d", c.Concat.MinGapMS, c.Concat.MaxGapMS)
	}
	return nil
}
