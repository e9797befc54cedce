package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"

	"doc-chat/internal/config"
	"doc-chat/internal/models"
)

func newTestOpenAIService(apiKey, baseURL string) *OpenAIService {
	return NewOpenAIService(
		config.OpenAIConfig{APIKey: apiKey, Model: "gpt-4o", BaseURL: baseURL},
		config.ChatConfig{DocumentCharLimit: 15000, TurnCharLimit: 2000},
	)
}

func TestTruncateChars(t *testing.T) {
	if got := truncateChars("abc", 5); got != "abc" {
		t.Fatalf("short input changed: %q", got)
	}
	if got := truncateChars(strings.Repeat("a", 10), 10); got != strings.Repeat("a", 10) {
		t.Fatalf("input at the limit changed: %q", got)
	}
	if got := truncateChars(strings.Repeat("a", 11), 10); utf8.RuneCountInString(got) != 10 {
		t.Fatalf("expected 10 characters, got %d", utf8.RuneCountInString(got))
	}
	// Characters, not bytes.
	if got := truncateChars(strings.Repeat("é", 8), 4); got != strings.Repeat("é", 4) {
		t.Fatalf("multibyte truncation wrong: %q", got)
	}
}

func TestSummarizeMessages(t *testing.T) {
	svc := newTestOpenAIService("test-key", "")
	doc := strings.Repeat("x", 15001)

	messages := svc.SummarizeMessages(doc)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("first message role = %q", messages[0].Role)
	}
	if !strings.Contains(messages[0].Content, "3-5 bullet points") {
		t.Fatalf("unexpected system instruction: %q", messages[0].Content)
	}
	if messages[1].Role != openai.ChatMessageRoleUser {
		t.Fatalf("second message role = %q", messages[1].Role)
	}
	if got := utf8.RuneCountInString(messages[1].Content); got != 15000 {
		t.Fatalf("document should be capped at exactly 15000 characters, got %d", got)
	}
}

func TestAskMessages(t *testing.T) {
	svc := newTestOpenAIService("test-key", "")
	history := []models.ChatTurn{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}

	messages := svc.AskMessages("the document body", "what is the total?", history)
	if len(messages) != 5 {
		t.Fatalf("expected 5 messages, got %d", len(messages))
	}
	if messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("first message role = %q", messages[0].Role)
	}
	if messages[1].Content != "the document body" {
		t.Fatalf("document message should be verbatim, got %q", messages[1].Content)
	}
	if messages[2].Role != openai.ChatMessageRoleUser || messages[2].Content != "earlier question" {
		t.Fatalf("history user turn wrong: %+v", messages[2])
	}
	if messages[3].Role != openai.ChatMessageRoleAssistant || messages[3].Content != "earlier answer" {
		t.Fatalf("history assistant turn wrong: %+v", messages[3])
	}
	want := "Based on this document, what is the total?"
	if messages[4].Content != want {
		t.Fatalf("final query message = %q, want %q", messages[4].Content, want)
	}
}

func TestCompleteMissingAPIKey(t *testing.T) {
	// The fake provider fails the test if it is ever reached: a
	// missing credential must short-circuit before any network call.
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider was called despite missing API key")
	}))
	defer provider.Close()

	svc := newTestOpenAIService("", provider.URL+"/v1")
	_, err := svc.Complete(context.Background(), svc.SummarizeMessages("doc"))
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}

	_, err = svc.StreamCompletion(context.Background(), svc.SummarizeMessages("doc"))
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey from streaming, got %v", err)
	}
}

func completionJSON(content string) string {
	return fmt.Sprintf(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o",`+
		`"choices":[{"index":0,"message":{"role":"assistant","content":%q},"finish_reason":"stop"}]}`, content)
}

func TestCompleteBuffered(t *testing.T) {
	var captured openai.ChatCompletionRequest
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode provider request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionJSON("- a concise summary"))
	}))
	defer provider.Close()

	svc := newTestOpenAIService("test-key", provider.URL+"/v1")
	answer, err := svc.Complete(context.Background(), svc.SummarizeMessages("the document"))
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if answer != "- a concise summary" {
		t.Fatalf("unexpected answer: %q", answer)
	}
	if captured.Temperature != 0.3 {
		t.Fatalf("temperature = %v, want 0.3", captured.Temperature)
	}
	if captured.Model != "gpt-4o" {
		t.Fatalf("model = %q", captured.Model)
	}
}

func TestCompleteUpstreamFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer provider.Close()

	svc := newTestOpenAIService("test-key", provider.URL+"/v1")
	_, err := svc.Complete(context.Background(), svc.SummarizeMessages("doc"))
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}

func streamChunkJSON(content string) string {
	return fmt.Sprintf(`{"id":"chatcmpl-1","object":"chat.completion.chunk","created":1,"model":"gpt-4o",`+
		`"choices":[{"index":0,"delta":{"content":%q},"finish_reason":null}]}`, content)
}

func TestStreamCompletionFragments(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range []string{"Hello", " ", "world"} {
			fmt.Fprintf(w, "data: %s\n\n", streamChunkJSON(chunk))
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	defer provider.Close()

	svc := newTestOpenAIService("test-key", provider.URL+"/v1")
	events, err := svc.StreamCompletion(context.Background(), svc.SummarizeMessages("doc"))
	if err != nil {
		t.Fatalf("StreamCompletion failed: %v", err)
	}

	var fragments []string
	for event := range events {
		if event.Err != nil {
			t.Fatalf("unexpected stream error: %v", event.Err)
		}
		fragments = append(fragments, event.Content)
	}
	if got := strings.Join(fragments, ""); got != "Hello world" {
		t.Fatalf("fragments = %q", got)
	}
	if len(fragments) != 3 {
		t.Fatalf("expected 3 fragments in arrival order, got %d", len(fragments))
	}
}

func TestStreamCompletionRequestFailure(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer provider.Close()

	svc := newTestOpenAIService("test-key", provider.URL+"/v1")
	_, err := svc.StreamCompletion(context.Background(), svc.SummarizeMessages("doc"))
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError before any fragment, got %v", err)
	}
}
