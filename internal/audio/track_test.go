package audio

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClipMSClampsBounds(t *testing.T) {
	track := toneTrack(1000, 1000, 0.5)

	full := track.ClipMS(0, 1000)
	if full.Milliseconds() != 1000 {
		t.Fatalf("full clip = %dms", full.Milliseconds())
	}

	over := track.ClipMS(800, 5000)
	if over.Milliseconds() != 200 {
		t.Fatalf("overrun clip = %dms, want 200", over.Milliseconds())
	}

	inverted := track.ClipMS(500, 100)
	if inverted.Frames() != 0 {
		t.Fatalf("inverted clip has %d frames", inverted.Frames())
	}

	negative := track.ClipMS(-100, 100)
	if negative.Milliseconds() != 100 {
		t.Fatalf("negative start clip = %dms", negative.Milliseconds())
	}
}

func TestSubMSIsRelativeToClip(t *testing.T) {
	track := toneTrack(1000, 1000, 0.5)
	clip := track.ClipMS(200, 800)

	sub := clip.SubMS(100, 200)
	if sub.Milliseconds() != 100 {
		t.Fatalf("sub clip = %dms", sub.Milliseconds())
	}
	want := track.ClipMS(300, 400).Samples()
	got := sub.Samples()
	if len(got) != len(want) {
		t.Fatalf("sample counts differ: %d vs %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("sample %d differs", i)
		}
	}

	runaway := clip.SubMS(500, 900)
	if runaway.Milliseconds() != 100 {
		t.Fatalf("tail sub clip = %dms, want 100", runaway.Milliseconds())
	}
}

func TestBuilderAssemblesClipsAndSilence(t *testing.T) {
	track := toneTrack(600, 1000, 0.5)
	builder := NewBuilderFor(track)
	builder.AppendClip(track.ClipMS(0, 250))
	builder.AppendSilence(50)
	builder.AppendClip(track.ClipMS(250, 600))
	builder.AppendSilence(0)
	builder.AppendSilence(-10)

	if builder.Len() != 650 {
		t.Fatalf("builder length = %dms, want 650", builder.Len())
	}

	out := builder.Track()
	if out.Milliseconds() != 650 {
		t.Fatalf("track length = %dms", out.Milliseconds())
	}
	if out.SampleRate != track.SampleRate || out.Channels != track.Channels || out.BitDepth != track.BitDepth {
		t.Fatalf("format mismatch: %+v", out)
	}
	// the inserted gap is digital silence
	gap := out.ClipMS(250, 300)
	for _, s := range gap.Samples() {
		if s != 0 {
			t.Fatal("expected silence in the gap")
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	track := toneTrack(500, 16000, 0.5)
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := EncodeWAV(path, track); err != nil {
		t.Fatalf("EncodeWAV: %v", err)
	}

	decoded, err := DecodeWAV(path)
	if err != nil {
		t.Fatalf("DecodeWAV: %v", err)
	}
	if decoded.SampleRate != track.SampleRate || decoded.Channels != track.Channels {
		t.Fatalf("format mismatch: %+v", decoded)
	}
	if len(decoded.Samples) != len(track.Samples) {
		t.Fatalf("sample counts differ: %d vs %d", len(decoded.Samples), len(track.Samples))
	}
	for i := range decoded.Samples {
		if decoded.Samples[i] != track.Samples[i] {
			t.Fatalf("sample %d differs: %d vs %d", i, decoded.Samples[i], track.Samples[i])
		}
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("not a wav"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := DecodeWAV(path); err == nil {
		t.Fatal("expected decode failure")
	}
}
