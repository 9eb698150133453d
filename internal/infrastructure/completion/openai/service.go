// Package openai implements the completion service on the OpenAI API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/plotari/chat-service/internal/core/completion"
	"github.com/plotari/chat-service/internal/domain/models"
)

// Config holds OpenAI client configuration.
type Config struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
}

// Service implements completion.Service using the OpenAI Chat Completions
// and Embeddings APIs.
type Service struct {
	client         *goopenai.Client
	chatModel      string
	embeddingModel string
}

// NewService creates a new OpenAI completion service.
func NewService(config *Config) (*Service, error) {
	if config == nil || config.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	chatModel := config.ChatModel
	if chatModel == "" {
		chatModel = goopenai.GPT3Dot5Turbo
	}
	embeddingModel := config.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = string(goopenai.SmallEmbedding3)
	}

	return &Service{
		client:         goopenai.NewClient(config.APIKey),
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
	}, nil
}

// intentWire is the JSON shape the model is instructed to return.
type intentWire struct {
	Type    string         `json:"type"`
	Query   string         `json:"query"`
	Filters map[string]any `json:"filters"`
}

// ExtractIntent asks the model to classify a user message. The returned
// intent is a parsed candidate; the classifier decides whether to accept it.
func (s *Service) ExtractIntent(ctx context.Context, message string, sessionContext *models.SessionContext) (*models.SearchIntent, error) {
	userContent := strings.TrimSpace(message)
	if sessionContext != nil {
		if contextJSON, err := json.Marshal(sessionContext); err == nil {
			userContent += "\n\nConversation context:\n" + string(contextJSON)
		}
	}

	resp, err := s.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: s.chatModel,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: intentSystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: userContent},
		},
		Temperature: 0.2,
		MaxTokens:   600,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("intent extraction request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("intent extraction returned no choices")
	}

	content := stripCodeFence(resp.Choices[0].Message.Content)

	var wire intentWire
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return nil, fmt.Errorf("intent extraction returned invalid JSON: %w", err)
	}

	return normalizeIntent(&wire, message), nil
}

// normalizeIntent converts the wire shape into a SearchIntent: filter values
// that are null or empty are dropped, and the variant-specific keys the
// model puts in filters are lifted onto the struct.
func normalizeIntent(wire *intentWire, originalMessage string) *models.SearchIntent {
	intent := &models.SearchIntent{
		Type:    models.IntentType(wire.Type),
		Query:   strings.TrimSpace(wire.Query),
		Filters: map[string]any{},
	}
	if intent.Query == "" {
		intent.Query = originalMessage
	}

	for key, value := range wire.Filters {
		if value == nil {
			continue
		}
		if str, ok := value.(string); ok && (str == "" || str == "null") {
			continue
		}

		switch key {
		case "property_id":
			if id, ok := value.(string); ok {
				intent.PropertyID = id
			}
		case "property_ids":
			intent.PropertyIDs = toStringSlice(value)
		case "poi_category":
			if category, ok := value.(string); ok {
				intent.Category = category
			}
		case "poi_radius":
			if radius, ok := value.(float64); ok {
				intent.Radius = int(radius)
			}
		case "search_mode":
			if mode, ok := value.(string); ok {
				intent.SearchMode = models.SearchMode(mode)
			}
		default:
			intent.Filters[key] = value
		}
	}
	return intent
}

func toStringSlice(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if str, ok := item.(string); ok && str != "" {
			out = append(out, str)
		}
	}
	return out
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

// GenerateReply produces a conversational reply from a prompt.
func (s *Service) GenerateReply(ctx context.Context, messages []completion.ChatMessage) (string, error) {
	apiMessages := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		apiMessages = append(apiMessages, goopenai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := s.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       s.chatModel,
		Messages:    apiMessages,
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", fmt.Errorf("reply generation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("reply generation returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateSummary produces a short title-style summary of the opening
// message of a conversation.
func (s *Service) GenerateSummary(ctx context.Context, message string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: s.chatModel,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: strings.TrimSpace(message)},
		},
		Temperature: 0.3,
		MaxTokens:   200,
	})
	if err != nil {
		return "", fmt.Errorf("summary generation request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summary generation returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// EmbedQuery returns an embedding vector for a search query.
func (s *Service) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	resp, err := s.client.CreateEmbeddings(ctx, goopenai.EmbeddingRequest{
		Input: []string{text},
		Model: goopenai.EmbeddingModel(s.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	if len(resp.Data) != 1 {
		return nil, fmt.Errorf("embedding request returned %d vectors, expected 1", len(resp.Data))
	}
	return resp.Data[0].Embedding, nil
}
