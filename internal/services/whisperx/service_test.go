package whisperx

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestBuildArgsCPUWithoutToken(t *testing.T) {
	svc := NewService(Config{Model: "large-v3", Language: "en"}, "")
	args := svc.buildArgs("/work/audio.wav", "/work/out")

	if args[0] != "--index-url" || args[1] != PypiIndexURL {
		t.Fatalf("expected pypi index first, got %v", args[:2])
	}
	if slices.Contains(args, "--diarize") {
		t.Fatal("expected diarization to be disabled without a token")
	}
	if !slices.Contains(args, "--vad_method") {
		t.Fatal("expected vad method flag")
	}
	deviceIdx := slices.Index(args, "--device")
	if deviceIdx < 0 || args[deviceIdx+1] != CPUDevice {
		t.Fatalf("expected cpu device, got %v", args)
	}
	if !slices.Contains(args, CPUComputeType) {
		t.Fatal("expected cpu compute type")
	}
	langIdx := slices.Index(args, "--language")
	if langIdx < 0 || args[langIdx+1] != "en" {
		t.Fatalf("expected language en, got %v", args)
	}
}

func TestBuildArgsCUDAWithDiarization(t *testing.T) {
	svc := NewService(Config{CUDAEnabled: true, HFToken: "hf_test", Language: "english"}, "")
	args := svc.buildArgs("/work/audio.wav", "/work/out")

	if !slices.Contains(args, CUDAIndexURL) {
		t.Fatal("expected cuda index url")
	}
	if !slices.Contains(args, "--diarize") {
		t.Fatal("expected diarization flag")
	}
	tokenIdx := slices.Index(args, "--hf_token")
	if tokenIdx < 0 || args[tokenIdx+1] != "hf_test" {
		t.Fatalf("expected hf token, got %v", args)
	}
	modelIdx := slices.Index(args, "--model")
	if modelIdx < 0 || args[modelIdx+1] != DefaultModel {
		t.Fatalf("expected default model fallback, got %v", args)
	}
	langIdx := slices.Index(args, "--language")
	if langIdx < 0 || args[langIdx+1] != "en" {
		t.Fatalf("expected word form normalized to en, got %v", args)
	}
	deviceIdx := slices.Index(args, "--device")
	if deviceIdx < 0 || args[deviceIdx+1] != CUDADevice {
		t.Fatalf("expected cuda device, got %v", args)
	}
}

func TestLoadSegmentsFillsFallbackSpeaker(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.json")
	doc := `{"segments": [
        {"start": 0.0, "end": 2.5, "text": " Hello there. ", "speaker": "SPEAKER_01"},
        {"start": 2.5, "end": 4.0, "text": "No label here."},
        {"start": 4.0, "end": 4.0, "text": "zero length"},
        {"start": 5.0, "end": 6.0, "text": ""}
    ]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}

	segments, err := LoadSegments(path)
	if err != nil {
		t.Fatalf("LoadSegments: %v", err)
	}
	if len(segments) != 3 {
		t.Fatalf("expected zero-length segment dropped, got %d segments", len(segments))
	}
	if segments[0].Speaker != "SPEAKER_01" || segments[0].Text != "Hello there." {
		t.Fatalf("unexpected first segment %+v", segments[0])
	}
	if segments[1].Speaker != FallbackSpeaker {
		t.Fatalf("expected fallback speaker, got %q", segments[1].Speaker)
	}
	if segments[2].Text != "" {
		t.Fatalf("expected empty text preserved for timing-only segment, got %q", segments[2].Text)
	}
}

func TestLoadSegmentsRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if _, err := LoadSegments(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestExtractFullAudioUsesRunner(t *testing.T) {
	svc := NewService(Config{}, "ffmpeg")
	var gotName string
	var gotArgs []string
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	})

	if err := svc.ExtractFullAudio(context.Background(), "/in/ep.mp3", "/out/ep.wav"); err != nil {
		t.Fatalf("ExtractFullAudio: %v", err)
	}
	if gotName != "ffmpeg" {
		t.Fatalf("expected ffmpeg invocation, got %q", gotName)
	}
	for _, want := range []string{"-ac", "1", "-ar", "16000", "/out/ep.wav"} {
		if !slices.Contains(gotArgs, want) {
			t.Fatalf("expected %q in args %v", want, gotArgs)
		}
	}
}
