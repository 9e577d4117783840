package segment

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Work directory transcript files.
const (
	TranscriptionFile = "transcription.json"
	TranslationFile   = "translation.json"
)

// Transcript is the on-disk envelope shared by transcription.json and
// translation.json in the work directory.
type Transcript struct {
	Segments []Segment `json:"segments"`
}

// LoadTranscript reads and validates a transcript file.
func LoadTranscript(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	var transcript Transcript
	if err := json.Unmarshal(data, &transcript); err != nil {
		return nil, fmt.Errorf("parse transcript %s: %w", path, err)
	}
	if err := ValidateAll(transcript.Segments); err != nil {
		return nil, fmt.Errorf("transcript %s: %w", path, err)
	}
	return transcript.Segments, nil
}

// SaveTranscript writes segments to path as an indented JSON envelope.
func SaveTranscript(path string, segments []Segment) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure transcript directory: %w", err)
	}
	data, err := json.MarshalIndent(Transcript{Segments: segments}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	return nil
}
