package transcription

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"babel/internal/logging"
	"babel/internal/segment"
	"babel/internal/services/whisperx"
	"babel/internal/testsupport"
)

func writeWhisperOutput(t *testing.T, path string) {
	t.Helper()
	payload := map[string]any{
		"segments": []map[string]any{
			{"start": 0.0, "end": 2.5, "text": "Welcome back to the show.", "speaker": "SPEAKER_00"},
			{"start": 2.8, "end": 5.0, "text": "Thanks for having me.", "speaker": "SPEAKER_01"},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write whisper output: %v", err)
	}
}

func TestExecuteWritesTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	source := filepath.Join(t.TempDir(), "episode.mp3")
	if err := os.WriteFile(source, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	item := testsupport.NewEpisode(t, store, source, "")

	service := whisperx.NewService(whisperx.Config{Model: "large-v3"}, "ffmpeg")
	service.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		jsonName := "episode.json"
		writeWhisperOutput(t, filepath.Join(item.WorkDir, jsonName))
		return nil
	})
	st := NewStageWithService(cfg, store, service, logging.NewNop())

	ctx := context.Background()
	if err := st.Prepare(ctx, item); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if item.WorkDir == "" {
		t.Fatal("Prepare did not assign a work directory")
	}
	if err := st.Execute(ctx, item); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	segments, err := segment.LoadTranscript(filepath.Join(item.WorkDir, segment.TranscriptionFile))
	if err != nil {
		t.Fatalf("LoadTranscript: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments", len(segments))
	}
	if segments[1].Speaker != "SPEAKER_01" {
		t.Fatalf("speaker = %q", segments[1].Speaker)
	}
}

func TestPrepareRejectsMissingSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.NewEpisode(t, store, "/nonexistent/episode.mp3", "")

	st := NewStage(cfg, store, logging.NewNop())
	if err := st.Prepare(context.Background(), item); err == nil {
		t.Fatal("expected missing source error")
	}
}

func TestExecuteFailsOnEmptyOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	source := filepath.Join(t.TempDir(), "episode.mp3")
	if err := os.WriteFile(source, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	item := testsupport.NewEpisode(t, store, source, "")

	service := whisperx.NewService(whisperx.Config{}, "ffmpeg")
	service.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return nil
	})
	st := NewStageWithService(cfg, store, service, logging.NewNop())

	ctx := context.Background()
	if err := st.Prepare(ctx, item); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := st.Execute(ctx, item); err == nil {
		t.Fatal("expected failure when whisperx produces no output")
	}
}

func TestPrepareKeepsExistingWorkDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	source := filepath.Join(t.TempDir(), "episode.mp3")
	if err := os.WriteFile(source, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	item := testsupport.NewEpisode(t, store, source, "")
	existing := filepath.Join(cfg.Paths.WorkDir, "custom")
	item.WorkDir = existing
	if err := store.Update(context.Background(), item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	st := NewStage(cfg, store, logging.NewNop())
	if err := st.Prepare(context.Background(), item); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if item.WorkDir != existing {
		t.Fatalf("WorkDir changed to %q", item.WorkDir)
	}
}

func TestHealthCheckFindsExternalTools(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	store := testsupport.MustOpenStore(t, cfg)

	st := NewStage(cfg, store, logging.NewNop())
	health := st.HealthCheck(context.Background())
	if !health.Ready {
		t.Fatalf("stage unhealthy with stubbed tools: %s", health.Detail)
	}
}
