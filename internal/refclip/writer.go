package refclip

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"babel/internal/textutil"
)

const (
	// RefAudioDirName is the work-dir subdirectory holding reference clips.
	RefAudioDirName = "ref_audio"
	// MetadataFileName is the per-speaker metadata sidecar written next to
	// the reference clips.
	MetadataFileName = "ref_metadata.json"
)

// MetadataEntry is the persisted record for one speaker's reference clip.
type MetadataEntry struct {
	Mode      string  `json:"mode"`
	Score     float64 `json:"score"`
	Metrics   Metrics `json:"metrics"`
	DurationS float64 `json:"duration_s"`
	RefText   string  `json:"ref_text"`
}

// metadataFile is the on-disk envelope of ref_metadata.json.
type metadataFile struct {
	Speakers map[string]MetadataEntry `json:"speakers"`
}

// Writer persists chosen reference clips and accumulates their metadata.
// The speaker-to-path mapping it produces is the contract consumed by
// voice-clone synthesis; the metadata file is an optional side channel.
type Writer struct {
	dir     string
	entries map[string]MetadataEntry
	paths   map[string]string
}

// NewWriter prepares the reference-audio directory under workDir.
func NewWriter(workDir string) (*Writer, error) {
	dir := filepath.Join(workDir, RefAudioDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure reference audio directory: %w", err)
	}
	return &Writer{
		dir:     dir,
		entries: make(map[string]MetadataEntry),
		paths:   make(map[string]string),
	}, nil
}

// Add exports one speaker's reference clip and records its metadata.
// Diarized speaker labels become filesystem-safe filenames; the map keys
// keep the original labels.
func (w *Writer) Add(ref Reference) error {
	path := filepath.Join(w.dir, textutil.SanitizeToken(ref.Speaker)+".wav")
	if err := ref.export(path); err != nil {
		return fmt.Errorf("export reference for %s: %w", ref.Speaker, err)
	}
	w.paths[ref.Speaker] = path
	w.entries[ref.Speaker] = MetadataEntry{
		Mode:      ref.Mode,
		Score:     ref.Score,
		Metrics:   ref.Metrics,
		DurationS: ref.Duration,
		RefText:   ref.RefText,
	}
	return nil
}

// Flush writes the accumulated metadata file and returns the
// speaker-to-path mapping.
func (w *Writer) Flush() (map[string]string, error) {
	data, err := json.MarshalIndent(metadataFile{Speakers: w.entries}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode reference metadata: %w", err)
	}
	metaPath := filepath.Join(w.dir, MetadataFileName)
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write reference metadata: %w", err)
	}
	return w.paths, nil
}

// LoadMetadata reads the ref_metadata.json side channel from a work
// directory. Callers treat a missing file as an empty result, falling
// back to transcript text for reference prompts.
func LoadMetadata(workDir string) (map[string]MetadataEntry, error) {
	path := filepath.Join(workDir, RefAudioDirName, MetadataFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reference metadata: %w", err)
	}
	var file metadataFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse reference metadata: %w", err)
	}
	return file.Speakers, nil
}
