package translation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"babel/internal/logging"
	"babel/internal/segment"
	"babel/internal/services/translate"
	"babel/internal/testsupport"
)

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		user := req.Messages[len(req.Messages)-1].Content
		count := 0
		for _, line := range strings.Split(user, "\n") {
			if idx := strings.Index(line, ". "); idx > 0 {
				if _, err := fmt.Sscanf(line[:idx], "%d", new(int)); err == nil {
					count++
				}
			}
		}
		var reply strings.Builder
		for i := 1; i <= count; i++ {
			fmt.Fprintf(&reply, "%d. 翻译%d\n", i, i)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": reply.String()}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestExecuteWritesTranslation(t *testing.T) {
	server := newEchoServer(t)
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.NewEpisode(t, store, "/tmp/episode.mp3", "")
	item.WorkDir = filepath.Join(cfg.Paths.WorkDir, "item-1")

	segments := []segment.Segment{
		{Start: 0, End: 2, Text: "Hello there.", Speaker: "SPEAKER_00"},
		{Start: 2.5, End: 4, Text: "How are you?", Speaker: "SPEAKER_01"},
	}
	if err := segment.SaveTranscript(filepath.Join(item.WorkDir, segment.TranscriptionFile), segments); err != nil {
		t.Fatalf("SaveTranscript: %v", err)
	}

	client := translate.NewClient(translate.Config{
		Provider: "deepseek",
		APIKey:   "sk-test",
		BaseURL:  server.URL,
		Model:    "deepseek-chat",
	})
	st := NewStageWithClient(store, client, logging.NewNop())

	ctx := context.Background()
	if err := st.Prepare(ctx, item); err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if err := st.Execute(ctx, item); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	translated, err := segment.LoadTranscript(filepath.Join(item.WorkDir, segment.TranslationFile))
	if err != nil {
		t.Fatalf("LoadTranscript: %v", err)
	}
	if len(translated) != len(segments) {
		t.Fatalf("got %d segments", len(translated))
	}
	for i, seg := range translated {
		if seg.TextZH == "" {
			t.Fatalf("segment %d missing translation", i)
		}
		if seg.Text != segments[i].Text {
			t.Fatalf("segment %d original text changed", i)
		}
	}
}

func TestPrepareRejectsMissingCredentials(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTranslationKey(""))
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.NewEpisode(t, store, "/tmp/episode.mp3", "")

	st := NewStage(cfg, store, logging.NewNop())
	if err := st.Prepare(context.Background(), item); err == nil {
		t.Fatal("expected credential error")
	}
}

func TestExecuteFailsWithoutTranscript(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	item := testsupport.NewEpisode(t, store, "/tmp/episode.mp3", "")
	item.WorkDir = filepath.Join(cfg.Paths.WorkDir, "item-1")

	client := translate.NewClient(translate.Config{Provider: "deepseek", APIKey: "sk-test", BaseURL: "https://api.deepseek.com"})
	st := NewStageWithClient(store, client, logging.NewNop())
	if err := st.Execute(context.Background(), item); err == nil {
		t.Fatal("expected missing transcript error")
	}
}
