package textutil

import "testing"

func TestDisplayTitle(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/media/shows/episode-012.mp3", "Episode 012"},
		{"deep_dive.on.llms.mp3", "Deep Dive On Llms"},
		{"/downloads/The Daily Show.mp3", "The Daily Show"},
		{"...", "Untitled Episode"},
		{"", "Untitled Episode"},
	}
	for _, tc := range cases {
		if got := DisplayTitle(tc.path); got != tc.want {
			t.Fatalf("DisplayTitle(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	if got := SanitizeFileName("a/b:c*d?.mp3"); got != "a-b-c-d.mp3" {
		t.Fatalf("SanitizeFileName = %q", got)
	}
	if got := SanitizeFileName("  plain.mp3 "); got != "plain.mp3" {
		t.Fatalf("SanitizeFileName = %q", got)
	}
}
