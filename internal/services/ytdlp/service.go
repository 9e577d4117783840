package ytdlp

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// Command names for external tools.
const (
	DefaultBinary = "yt-dlp"
	AudioQuality  = "192K"
)

// IsYouTubeURL reports whether the string is an http(s) YouTube link.
func IsYouTubeURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	return host == "youtu.be" || host == "youtube.com" || strings.HasSuffix(host, ".youtube.com")
}

// Service downloads YouTube audio as MP3 via the yt-dlp CLI.
type Service struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a downloader using the given yt-dlp binary name.
func NewService(binary string) *Service {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Service{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// DownloadMP3 fetches the audio track of a YouTube video into outputDir
// as MP3 and returns the downloaded file path.
func (s *Service) DownloadMP3(ctx context.Context, rawURL, outputDir string) (string, error) {
	if !IsYouTubeURL(rawURL) {
		return "", fmt.Errorf("yt-dlp: not a YouTube URL: %s", rawURL)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("yt-dlp: ensure output dir: %w", err)
	}

	before, err := listMP3s(outputDir)
	if err != nil {
		return "", err
	}

	args := []string{
		"--no-playlist",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", AudioQuality,
		"--output", filepath.Join(outputDir, "%(title)s.%(ext)s"),
		"--quiet",
		"--no-warnings",
		rawURL,
	}
	if err := s.run(ctx, s.binary, args...); err != nil {
		return "", fmt.Errorf("yt-dlp: %w", err)
	}

	after, err := listMP3s(outputDir)
	if err != nil {
		return "", err
	}
	downloaded := newestNew(before, after)
	if downloaded == "" {
		return "", fmt.Errorf("yt-dlp: no MP3 produced in %s", outputDir)
	}
	return downloaded, nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func listMP3s(dir string) (map[string]struct{}, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("yt-dlp: list output dir: %w", err)
	}
	set := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".mp3") {
			set[filepath.Join(dir, entry.Name())] = struct{}{}
		}
	}
	return set, nil
}

func newestNew(before, after map[string]struct{}) string {
	var added []string
	for path := range after {
		if _, ok := before[path]; !ok {
			added = append(added, path)
		}
	}
	if len(added) == 0 {
		return ""
	}
	sort.Strings(added)
	return added[0]
}
