// Package transcription turns source episode audio into a diarized
// transcript via the WhisperX CLI.
package transcription
