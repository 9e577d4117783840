package config

const (
	defaultWorkDir         = "~/.local/share/babel/work"
	defaultOutputDir       = "~/babel"
	defaultLogDir          = "~/.local/share/babel/logs"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultWhisperXModel   = "large-v3"
	defaultWhisperXLang    = "en"
	defaultWhisperXVAD     = "silero"
	defaultWhisperXCache   = "~/.cache/babel/whisperx"
	defaultWhisperXTimeout = 3600

	// Provider presets for the translation section.
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"

	defaultDeepSeekBaseURL     = "https://api.deepseek.com"
	defaultDeepSeekModel       = "deepseek-chat"
	defaultOpenAIBaseURL       = "https://api.openai.com/v1"
	defaultOpenAIModel         = "gpt-5-mini"
	defaultTranslationTemp     = 0.3
	defaultTranslationBatch    = 20
	defaultTranslationRetries  = 3
	defaultTranslationTimeout  = 120
	defaultSynthesisTimeout    = 600
	defaultConcatMinGapMS      = 100
	defaultConcatMaxGapMS      = 3000
	defaultConcatBitrate       = "192k"
	defaultRefMinClipSeconds   = 3.0
	defaultRefMaxClipSeconds   = 10.0
	defaultRefComposeGapMS     = 50
	defaultRefFrameMS          = 50
	defaultRefHopMS            = 25
	defaultRefSilenceFloor     = -90.0
	defaultRefSpeechMargin     = 6.0
	defaultRefSpeechFloor      = -45.0
	defaultRefSpeechHeadroom   = 2.0
	defaultRefSNRLow           = 6.0
	defaultRefSNRHigh          = 24.0
	defaultRefLoudnessTarget   = -19.0
	defaultRefLoudnessWindow   = 12.0
	defaultRefClipLevelRatio   = 0.995
	defaultRefClipSaturation   = 0.01
	defaultRefSpeechWeight     = 0.35
	defaultRefSNRWeight        = 0.25
	defaultRefLoudnessWeight   = 0.15
	defaultRefDurationWeight   = 0.15
	defaultRefClipWeight       = 0.25
	defaultRefShortClipSeconds = 1.2
	defaultRefShortClipPenalty = 0.25
	defaultRefLowSpeechRatio   = 0.25
	defaultRefLowSpeechPenalty = 0.25
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir:   defaultWorkDir,
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		WhisperX: WhisperX{
			Model:          defaultWhisperXModel,
			Language:       defaultWhisperXLang,
			VADMethod:      defaultWhisperXVAD,
			CacheDir:       defaultWhisperXCache,
			TimeoutSeconds: defaultWhisperXTimeout,
		},
		Translation: Translation{
			Provider:       ProviderDeepSeek,
			Temperature:    defaultTranslationTemp,
			BatchSize:      defaultTranslationBatch,
			MaxRetries:     defaultTranslationRetries,
			TimeoutSeconds: defaultTranslationTimeout,
		},
		TTS: TTS{
			TimeoutSeconds: defaultSynthesisTimeout,
		},
		RefClip: RefClip{
			MinClipSeconds:      defaultRefMinClipSeconds,
			MaxClipSeconds:      defaultRefMaxClipSeconds,
			ComposeGapMS:        defaultRefComposeGapMS,
			FrameMS:             defaultRefFrameMS,
			HopMS:               defaultRefHopMS,
			SilenceFloorDBFS:    defaultRefSilenceFloor,
			SpeechMarginDB:      defaultRefSpeechMargin,
			SpeechFloorDBFS:     defaultRefSpeechFloor,
			SpeechHeadroomDB:    defaultRefSpeechHeadroom,
			SNRLowDB:            defaultRefSNRLow,
			SNRHighDB:           defaultRefSNRHigh,
			LoudnessTargetDBFS:  defaultRefLoudnessTarget,
			LoudnessWindowDB:    defaultRefLoudnessWindow,
			ClipLevelRatio:      defaultRefClipLevelRatio,
			ClipSaturationRatio: defaultRefClipSaturation,
			SpeechWeight:        defaultRefSpeechWeight,
			SNRWeight:           defaultRefSNRWeight,
			LoudnessWeight:      defaultRefLoudnessWeight,
			DurationWeight:      defaultRefDurationWeight,
			ClipWeight:          defaultRefClipWeight,
			ShortClipSeconds:    defaultRefShortClipSeconds,
			ShortClipPenalty:    defaultRefShortClipPenalty,
			LowSpeechRatio:      defaultRefLowSpeechRatio,
			LowSpeechPenalty:    defaultRefLowSpeechPenalty,
		},
		Concat: Concat{
			MinGapMS: defaultConcatMinGapMS,
			MaxGapMS: defaultConcatMaxGapMS,
			Bitrate:  defaultConcatBitrate,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
