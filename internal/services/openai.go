package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"

	"doc-chat/internal/config"
	"doc-chat/internal/models"
)

// Low temperature keeps the output focused on the document.
const chatTemperature = 0.3

const (
	summarizeInstruction = "Summarize this document in 3-5 bullet points:"
	askInstruction       = "You are answering questions based on the following document:"
)

type OpenAIService struct {
	client    *openai.Client
	model     string
	apiKey    string
	docLimit  int
	turnLimit int
}

func NewOpenAIService(cfg config.OpenAIConfig, chat config.ChatConfig) *OpenAIService {
	var clientCfg openai.ClientConfig
	if cfg.AzureEndpoint != "" {
		clientCfg = openai.DefaultAzureConfig(cfg.APIKey, cfg.AzureEndpoint)
		if cfg.AzureAPIVersion != "" {
			clientCfg.APIVersion = cfg.AzureAPIVersion
		}
	} else {
		clientCfg = openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
	}

	return &OpenAIService{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		apiKey:    cfg.APIKey,
		docLimit:  chat.DocumentCharLimit,
		turnLimit: chat.TurnCharLimit,
	}
}

// SummarizeMessages builds the two-message summarization request. The
// document is capped at the document character budget.
func (s *OpenAIService) SummarizeMessages(documentText string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: summarizeInstruction},
		{Role: openai.ChatMessageRoleUser, Content: truncateChars(documentText, s.docLimit)},
	}
}

// AskMessages builds the follow-up question request: instruction, the
// stored document, any prior conversation turns and finally the query.
// Conversational content gets a tighter budget than the document.
func (s *OpenAIService) AskMessages(documentText, query string, history []models.ChatTurn) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+3)
	messages = append(messages,
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: askInstruction},
		openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: truncateChars(documentText, s.docLimit)},
	)
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: truncateChars(turn.Content, s.turnLimit),
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: fmt.Sprintf("Based on this document, %s", truncateChars(query, s.turnLimit)),
	})
	return messages
}

// Complete sends the request and collects the full answer. A missing
// credential short-circuits before any network call.
func (s *OpenAIService) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	if s.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	resp, err := s.client.CreateChatCompletion(ctx, s.request(messages, false))
	if err != nil {
		return "", &UpstreamError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &UpstreamError{Err: errors.New("no choices in provider response")}
	}
	return resp.Choices[0].Message.Content, nil
}

// StreamEvent is one element of a streamed completion: a text fragment
// or, as the final element, a provider failure.
type StreamEvent struct {
	Content string
	Err     error
}

// StreamCompletion sends the request and relays the provider's
// incremental output over a channel. The sequence is finite and
// produced once; the channel closes after the last fragment or after
// a single terminal error event. There is no way to abort an
// in-flight request other than the caller's context expiring.
func (s *OpenAIService) StreamCompletion(ctx context.Context, messages []openai.ChatCompletionMessage) (<-chan StreamEvent, error) {
	if s.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	stream, err := s.client.CreateChatCompletionStream(ctx, s.request(messages, true))
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	events := make(chan StreamEvent)
	go func() {
		defer close(events)
		defer stream.Close()
		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				select {
				case events <- StreamEvent{Err: &UpstreamError{Err: err}}:
				case <-ctx.Done():
				}
				return
			}
			if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
				continue
			}
			select {
			case events <- StreamEvent{Content: resp.Choices[0].Delta.Content}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}

func (s *OpenAIService) request(messages []openai.ChatCompletionMessage, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: chatTemperature,
		Stream:      stream,
	}
}

// truncateChars caps s at limit characters (code points, not bytes).
func truncateChars(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
