package indextts

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"babel/internal/segment"
)

func TestSegmentText(t *testing.T) {
	tests := []struct {
		seg  segment.Segment
		want string
	}{
		{segment.Segment{TextZH: "你好世界", Text: "Hello world"}, "你好世界"},
		{segment.Segment{Text: "Hello world"}, "Hello world"},
		{segment.Segment{TextZH: "  ", Text: "  "}, DefaultText},
		{segment.Segment{}, DefaultText},
	}
	for _, tc := range tests {
		if got := SegmentText(tc.seg); got != tc.want {
			t.Errorf("SegmentText(%+v) = %q, want %q", tc.seg, got, tc.want)
		}
	}
}

func TestDefaultPromptIsStable(t *testing.T) {
	prompts := map[string]ClonePrompt{
		"SPEAKER_01": {AudioPath: "/ref/01.wav"},
		"SPEAKER_00": {AudioPath: "/ref/00.wav"},
		"SPEAKER_02": {AudioPath: "/ref/02.wav"},
	}
	for range 5 {
		got, ok := DefaultPrompt(prompts)
		if !ok || got.AudioPath != "/ref/00.wav" {
			t.Fatalf("expected first sorted speaker's prompt, got %+v ok=%v", got, ok)
		}
	}
	if _, ok := DefaultPrompt(nil); ok {
		t.Fatal("expected no default for empty mapping")
	}
}

func TestSynthesizeInvokesCLIPerSegment(t *testing.T) {
	ttsDir := t.TempDir()
	workDir := t.TempDir()

	svc := NewService(Config{IndexTTSDir: ttsDir})
	var invocations [][]string
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		invocations = append(invocations, append([]string{name}, args...))
		return nil
	})

	segments := []segment.Segment{
		{Start: 0, End: 1, Text: "Hello.", TextZH: "你好。", Speaker: "SPEAKER_00"},
		{Start: 1, End: 2, Text: "Bye.", Speaker: "SPEAKER_99"},
	}
	prompts := map[string]ClonePrompt{
		"SPEAKER_00": {AudioPath: "/refs/s0.wav", RefText: "Hello."},
	}

	clips, err := svc.Synthesize(context.Background(), segments, prompts, workDir)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(clips) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(clips))
	}
	if clips[0] != filepath.Join(workDir, ClipsDirName, "seg_0000.wav") {
		t.Fatalf("unexpected clip path %q", clips[0])
	}
	if len(invocations) != 2 {
		t.Fatalf("expected 2 CLI invocations, got %d", len(invocations))
	}

	first := invocations[0]
	if first[0] != "uv" || first[1] != "run" {
		t.Fatalf("expected uv run invocation, got %v", first[:2])
	}
	if !slices.Contains(first, "你好。") {
		t.Fatalf("expected translated text in args %v", first)
	}
	if idx := slices.Index(first, "--voice"); idx < 0 || first[idx+1] != "/refs/s0.wav" {
		t.Fatalf("expected speaker reference, got %v", first)
	}

	// Unknown speaker falls back to the default reference.
	second := invocations[1]
	if idx := slices.Index(second, "--voice"); idx < 0 || second[idx+1] != "/refs/s0.wav" {
		t.Fatalf("expected fallback reference, got %v", second)
	}
	if !slices.Contains(second, "Bye.") {
		t.Fatalf("expected untranslated fallback text, got %v", second)
	}

	// The clone prompts are persisted next to the clips.
	data, err := os.ReadFile(filepath.Join(workDir, ClipsDirName, PromptsFileName))
	if err != nil {
		t.Fatalf("read prompts manifest: %v", err)
	}
	var recorded map[string]ClonePrompt
	if err := json.Unmarshal(data, &recorded); err != nil {
		t.Fatalf("decode prompts manifest: %v", err)
	}
	if recorded["SPEAKER_00"] != prompts["SPEAKER_00"] {
		t.Fatalf("manifest prompt = %+v", recorded["SPEAKER_00"])
	}
}

func TestSynthesizeRequiresReferences(t *testing.T) {
	svc := NewService(Config{IndexTTSDir: t.TempDir()})
	svc.WithCommandRunner(func(context.Context, string, ...string) error { return nil })

	_, err := svc.Synthesize(context.Background(), []segment.Segment{{Start: 0, End: 1, Speaker: "S"}}, nil, t.TempDir())
	if err == nil {
		t.Fatal("expected error without reference audio")
	}
}

func TestCheckInstallRejectsMissingDir(t *testing.T) {
	if err := NewService(Config{}).CheckInstall(); err == nil {
		t.Fatal("expected unconfigured checkout to be rejected")
	}
	if err := NewService(Config{IndexTTSDir: "/nonexistent/place"}).CheckInstall(); err == nil {
		t.Fatal("expected missing checkout to be rejected")
	}
}
