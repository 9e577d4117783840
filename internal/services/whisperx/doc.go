// Package whisperx wraps the WhisperX CLI (launched through uvx) for
// transcription and speaker diarization, plus the ffmpeg extraction that
// prepares audio for it. When no Hugging Face token is configured,
// diarization is skipped and every segment is labeled SPEAKER_00.
package whisperx
