package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	configPath := filepath.Join(base, "babel.toml")
	content := fmt.Sprintf(`[paths]
work_dir = %q
output_dir = %q
log_dir = %q

[translation]
provider = "deepseek"
api_key = "sk-test"
`, filepath.Join(base, "work"), filepath.Join(base, "output"), filepath.Join(base, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAddQueuesLocalFile(t *testing.T) {
	configPath := writeTestConfig(t)
	source := filepath.Join(t.TempDir(), "episode.mp3")
	if err := os.WriteFile(source, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	out, err := runCommand(t, "--config", configPath, "add", source)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Queued item 1: Episode") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestAddRejectsMissingFile(t *testing.T) {
	configPath := writeTestConfig(t)
	_, err := runCommand(t, "--config", configPath, "add", "/nonexistent/episode.mp3")
	if err == nil {
		t.Fatal("expected missing source error")
	}
}

func TestQueueListShowsQueuedItems(t *testing.T) {
	configPath := writeTestConfig(t)
	source := filepath.Join(t.TempDir(), "interview.mp3")
	if err := os.WriteFile(source, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if _, err := runCommand(t, "--config", configPath, "add", source, "--title", "Interview"); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err := runCommand(t, "--config", configPath, "queue", "list")
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	if !strings.Contains(out, "Interview") || !strings.Contains(out, "pending") {
		t.Fatalf("unexpected list output: %q", out)
	}
}

func TestQueueListEmpty(t *testing.T) {
	configPath := writeTestConfig(t)
	out, err := runCommand(t, "--config", configPath, "queue", "list")
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	if !strings.Contains(out, "Queue is empty") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected output: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("sample not written: %v", err)
	}

	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected overwrite refusal")
	}
	if _, err := runCommand(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestStageCommandRequiresItem(t *testing.T) {
	configPath := writeTestConfig(t)
	if _, err := runCommand(t, "--config", configPath, "transcribe"); err == nil {
		t.Fatal("expected --item requirement")
	}
}

func TestDownloadRejectsNonYouTubeURL(t *testing.T) {
	configPath := writeTestConfig(t)
	_, err := runCommand(t, "--config", configPath, "download", "https://example.com/episode.mp3")
	if err == nil || !strings.Contains(err.Error(), "not a YouTube URL") {
		t.Fatalf("err = %v, want YouTube URL rejection", err)
	}
}
