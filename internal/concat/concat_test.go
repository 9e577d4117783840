package concat

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"babel/internal/segment"
	"babel/internal/testsupport"
)

func TestGapClamping(t *testing.T) {
	assembler := NewAssembler(Settings{MinGapMS: 100, MaxGapMS: 3000}, "ffmpeg")

	cases := []struct {
		name string
		prev segment.Segment
		next segment.Segment
		want int
	}{
		{"natural gap preserved", segment.Segment{End: 1.0}, segment.Segment{Start: 1.5}, 500},
		{"overlap clamps to minimum", segment.Segment{End: 2.0}, segment.Segment{Start: 1.5}, 100},
		{"tiny gap clamps to minimum", segment.Segment{End: 1.0}, segment.Segment{Start: 1.05}, 100},
		{"long pause clamps to maximum", segment.Segment{End: 1.0}, segment.Segment{Start: 10.0}, 3000},
		{"exactly max passes through", segment.Segment{End: 1.0}, segment.Segment{Start: 4.0}, 3000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := assembler.GapMS(tc.prev, tc.next); got != tc.want {
				t.Fatalf("GapMS = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestFixedGapOverridesTimeline(t *testing.T) {
	assembler := NewAssembler(Settings{MinGapMS: 100, MaxGapMS: 3000, FixedGapMS: 250}, "ffmpeg")

	pairs := []struct {
		prev segment.Segment
		next segment.Segment
	}{
		{segment.Segment{End: 1.0}, segment.Segment{Start: 1.5}},
		{segment.Segment{End: 2.0}, segment.Segment{Start: 1.5}},
		{segment.Segment{End: 1.0}, segment.Segment{Start: 10.0}},
	}
	for _, pair := range pairs {
		if got := assembler.GapMS(pair.prev, pair.next); got != 250 {
			t.Fatalf("GapMS = %d, want fixed 250", got)
		}
	}
}

func TestDefaultSettings(t *testing.T) {
	assembler := NewAssembler(Settings{}, "")
	if assembler.settings.MinGapMS != 100 || assembler.settings.MaxGapMS != 3000 {
		t.Fatalf("unexpected gap defaults: %+v", assembler.settings)
	}
	if assembler.settings.Bitrate != "192k" {
		t.Fatalf("Bitrate = %q, want 192k", assembler.settings.Bitrate)
	}
	if assembler.ffmpegBinary != "ffmpeg" {
		t.Fatalf("ffmpegBinary = %q", assembler.ffmpegBinary)
	}
}

func TestBuildTrackLength(t *testing.T) {
	dir := t.TempDir()
	clipA := filepath.Join(dir, "seg_0000.wav")
	clipB := filepath.Join(dir, "seg_0001.wav")
	testsupport.WriteToneWAV(t, clipA, 1000, 16000, 220, 0.5)
	testsupport.WriteToneWAV(t, clipB, 500, 16000, 440, 0.5)

	segments := []segment.Segment{
		{Start: 0.0, End: 1.0},
		{Start: 1.3, End: 1.8},
	}

	assembler := NewAssembler(Settings{MinGapMS: 100, MaxGapMS: 3000}, "ffmpeg")
	track, err := assembler.BuildTrack([]string{clipA, clipB}, segments)
	if err != nil {
		t.Fatalf("BuildTrack: %v", err)
	}
	// 1000ms + 300ms gap + 500ms
	if got := track.Milliseconds(); got != 1800 {
		t.Fatalf("Milliseconds = %d, want 1800", got)
	}
	if track.SampleRate != 16000 {
		t.Fatalf("SampleRate = %d", track.SampleRate)
	}
}

func TestBuildTrackMismatchedCounts(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "seg_0000.wav")
	testsupport.WriteToneWAV(t, clip, 200, 16000, 220, 0.5)

	assembler := NewAssembler(Settings{}, "")
	if _, err := assembler.BuildTrack([]string{clip}, nil); err == nil {
		t.Fatal("expected mismatch error")
	}
	if _, err := assembler.BuildTrack(nil, nil); err == nil {
		t.Fatal("expected empty-clips error")
	}
}

func TestAssembleInvokesFFmpeg(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "seg_0000.wav")
	testsupport.WriteToneWAV(t, clip, 300, 16000, 330, 0.4)
	segments := []segment.Segment{{Start: 0, End: 0.3}}
	output := filepath.Join(dir, "out", "episode_zh.mp3")

	assembler := NewAssembler(Settings{Bitrate: "192k"}, "ffmpeg")
	var gotName string
	var gotArgs []string
	assembler.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	})

	if err := assembler.Assemble(context.Background(), []string{clip}, segments, output); err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if gotName != "ffmpeg" {
		t.Fatalf("ran %q, want ffmpeg", gotName)
	}
	wantWav := filepath.Join(dir, "out", "episode_zh.tmp.wav")
	found := false
	for i, arg := range gotArgs {
		if arg == "-i" && i+1 < len(gotArgs) && gotArgs[i+1] == wantWav {
			found = true
		}
	}
	if !found {
		t.Fatalf("ffmpeg args missing input %s: %v", wantWav, gotArgs)
	}
	if gotArgs[len(gotArgs)-1] != output {
		t.Fatalf("last arg = %q, want %q", gotArgs[len(gotArgs)-1], output)
	}
}

func TestAssembleReportsRunnerFailure(t *testing.T) {
	dir := t.TempDir()
	clip := filepath.Join(dir, "seg_0000.wav")
	testsupport.WriteToneWAV(t, clip, 200, 16000, 220, 0.5)
	segments := []segment.Segment{{Start: 0, End: 0.2}}

	assembler := NewAssembler(Settings{}, "")
	assembler.WithCommandRunner(func(context.Context, string, ...string) error {
		return fmt.Errorf("boom")
	})
	err := assembler.Assemble(context.Background(), []string{clip}, segments, filepath.Join(dir, "out.mp3"))
	if err == nil {
		t.Fatal("expected export error")
	}
}
