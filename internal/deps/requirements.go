package deps

import "babel/internal/config"

// Requirements lists the external tools the pipeline shells out to,
// resolved against the active configuration.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Audio decoding, reference clip export, and MP3 encoding",
		},
		{
			Name:        "uvx",
			Command:     cfg.UvxBinary(),
			Description: "Runs the WhisperX transcription CLI",
		},
		{
			Name:        "uv",
			Command:     "uv",
			Description: "Runs IndexTTS2 from its project checkout",
		},
		{
			Name:        "yt-dlp",
			Command:     cfg.YtDlpBinary(),
			Description: "Downloads episode audio from YouTube",
			Optional:    true,
		},
	}
}
