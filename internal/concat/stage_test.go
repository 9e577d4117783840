package concat

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"babel/internal/logging"
	"babel/internal/segment"
	"babel/internal/testsupport"
)

func TestStageExecutePublishesEpisode(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.NewEpisode(t, store, "/media/episode-01.mp3", "")
	item.WorkDir = filepath.Join(cfg.Paths.WorkDir, "item-1")

	segments := []segment.Segment{
		{Start: 0, End: 1, TextZH: "你好。", Speaker: "SPEAKER_00"},
		{Start: 1.4, End: 2.2, TextZH: "欢迎。", Speaker: "SPEAKER_01"},
	}
	if err := segment.SaveTranscript(filepath.Join(item.WorkDir, segment.TranslationFile), segments); err != nil {
		t.Fatalf("SaveTranscript: %v", err)
	}
	clipsDir := filepath.Join(item.WorkDir, "tts_clips")
	if err := os.MkdirAll(clipsDir, 0o755); err != nil {
		t.Fatalf("mkdir clips: %v", err)
	}
	testsupport.WriteToneWAV(t, filepath.Join(clipsDir, "seg_0000.wav"), 800, 16000, 220, 0.5)
	testsupport.WriteToneWAV(t, filepath.Join(clipsDir, "seg_0001.wav"), 600, 16000, 440, 0.5)

	assembler := NewAssembler(Settings{}, "ffmpeg")
	assembler.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		// stand in for the MP3 encode
		return os.WriteFile(args[len(args)-1], []byte("mp3"), 0o644)
	})
	st := NewStageWithAssembler(cfg, store, assembler, logging.NewNop())

	ctx := context.Background()
	if err := st.Prepare(ctx, item); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := st.Execute(ctx, item); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := filepath.Join(cfg.Paths.OutputDir, "episode-01_zh.mp3")
	if item.OutputPath != want {
		t.Fatalf("OutputPath = %q, want %q", item.OutputPath, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("published episode missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(item.WorkDir, "episode-01_zh.mp3")); !os.IsNotExist(err) {
		t.Fatal("staged copy was not cleaned up")
	}
}

func TestStagePrepareRequiresClips(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.NewEpisode(t, store, "/media/episode.mp3", "")
	item.WorkDir = filepath.Join(cfg.Paths.WorkDir, "item-1")

	st := NewStage(cfg, store, logging.NewNop())
	if err := st.Prepare(context.Background(), item); err == nil {
		t.Fatal("expected missing clips error")
	}
}
