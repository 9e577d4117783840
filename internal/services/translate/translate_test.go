package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"babel/internal/segment"
)

func chatReply(content string) string {
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	encoded, _ := json.Marshal(reply)
	return string(encoded)
}

func testSegments(texts ...string) []segment.Segment {
	segments := make([]segment.Segment, len(texts))
	for i, text := range texts {
		segments[i] = segment.Segment{
			Start:   float64(i),
			End:     float64(i) + 1,
			Text:    text,
			Speaker: "SPEAKER_00",
		}
	}
	return segments
}

func TestSegmentsTranslatesBatch(t *testing.T) {
	var gotRequest chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, chatReply("1. 你好\n2. 再见"))
	}))
	defer server.Close()

	client := NewClient(Config{
		Provider: "deepseek",
		APIKey:   "sk-test",
		BaseURL:  server.URL,
		Model:    "deepseek-chat",
	})

	translated, err := client.Segments(context.Background(), nil, testSegments("Hello.", "Goodbye."))
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if translated[0].TextZH != "你好" || translated[1].TextZH != "再见" {
		t.Fatalf("unexpected translations %+v", translated)
	}
	if translated[0].Text != "Hello." {
		t.Fatal("expected original text preserved")
	}
	if gotRequest.Temperature == nil {
		t.Fatal("expected deepseek request to carry temperature")
	}
	if len(gotRequest.Messages) != 2 || gotRequest.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages %+v", gotRequest.Messages)
	}
	if !strings.Contains(gotRequest.Messages[1].Content, "1. Hello.") {
		t.Fatalf("expected numbered lines in prompt, got %q", gotRequest.Messages[1].Content)
	}
}

func TestSegmentsOmitsTemperatureForOpenAI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := req["temperature"]; ok {
			t.Error("expected temperature to be omitted for openai")
		}
		fmt.Fprint(w, chatReply("1. 你好"))
	}))
	defer server.Close()

	client := NewClient(Config{
		Provider: "openai",
		APIKey:   "sk-test",
		BaseURL:  server.URL,
		Model:    "gpt-5-mini",
	})

	if _, err := client.Segments(context.Background(), nil, testSegments("Hello.")); err != nil {
		t.Fatalf("Segments: %v", err)
	}
}

func TestSegmentsFallsBackOnShortReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply("1. 你好"))
	}))
	defer server.Close()

	client := NewClient(Config{Provider: "deepseek", APIKey: "sk-test", BaseURL: server.URL})

	translated, err := client.Segments(context.Background(), nil, testSegments("Hello.", "Goodbye."))
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if translated[0].TextZH != "你好" {
		t.Fatalf("unexpected first translation %q", translated[0].TextZH)
	}
	if translated[1].TextZH != "Goodbye." {
		t.Fatalf("expected fallback to original, got %q", translated[1].TextZH)
	}
}

func TestSegmentsBatches(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, chatReply("1. 一\n2. 二"))
	}))
	defer server.Close()

	client := NewClient(Config{Provider: "deepseek", APIKey: "sk-test", BaseURL: server.URL, BatchSize: 2})

	translated, err := client.Segments(context.Background(), nil, testSegments("a", "b", "c", "d"))
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 batched calls, got %d", calls)
	}
	if translated[2].TextZH != "一" || translated[3].TextZH != "二" {
		t.Fatalf("unexpected second batch %+v", translated[2:])
	}
}

func TestSegmentsRetriesOn429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, chatReply("1. 你好"))
	}))
	defer server.Close()

	var slept time.Duration
	client := NewClient(
		Config{Provider: "deepseek", APIKey: "sk-test", BaseURL: server.URL, MaxRetries: 3},
		WithSleeper(func(d time.Duration) { slept += d }),
	)

	translated, err := client.Segments(context.Background(), nil, testSegments("Hello."))
	if err != nil {
		t.Fatalf("Segments: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected retried call, got %d calls", calls)
	}
	if slept != time.Second {
		t.Fatalf("expected Retry-After honored, slept %v", slept)
	}
	if translated[0].TextZH != "你好" {
		t.Fatalf("unexpected translation %q", translated[0].TextZH)
	}
}

func TestSegmentsDoesNotRetryClientError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(
		Config{Provider: "deepseek", APIKey: "sk-bad", BaseURL: server.URL, MaxRetries: 3},
		WithSleeper(func(time.Duration) {}),
	)

	if _, err := client.Segments(context.Background(), nil, testSegments("Hello.")); err == nil {
		t.Fatal("expected error for 401")
	}
	if calls != 1 {
		t.Fatalf("expected no retry on 401, got %d calls", calls)
	}
}

func TestParseNumberedLines(t *testing.T) {
	reply := "1. 第一句\n\n2、第二句\n3） 第三句\nplain line\n10. 第十句"
	parsed := parseNumberedLines(reply)
	want := []string{"第一句", "第二句", "第三句", "plain line", "第十句"}
	if len(parsed) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(parsed), parsed)
	}
	for i := range want {
		if parsed[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, parsed[i], want[i])
		}
	}
}

func TestHealthCheckRequiresKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "https://api.deepseek.com"})
	if err := client.HealthCheck(); err == nil {
		t.Fatal("expected missing api key error")
	}
	client = NewClient(Config{APIKey: "sk-test", BaseURL: "https://api.deepseek.com"})
	if err := client.HealthCheck(); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}
