// Package completion defines the LLM completion service interface.
package completion

import (
	"context"

	"github.com/plotari/chat-service/internal/domain/models"
)

// Role constants for chat messages sent to the completion service.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is a single message in a completion prompt.
type ChatMessage struct {
	Role    string
	Content string
}

// Service is the external large-language-model service used for intent
// extraction and reply generation. Implementations must honor the context
// deadline; callers treat every error as a signal to fall back.
type Service interface {
	// ExtractIntent asks the model to classify a user message into a
	// search intent. The returned candidate is parsed but not yet
	// validated; the classifier decides whether to accept it.
	ExtractIntent(ctx context.Context, message string, sessionContext *models.SessionContext) (*models.SearchIntent, error)

	// GenerateReply produces a conversational reply from a prompt.
	GenerateReply(ctx context.Context, messages []ChatMessage) (string, error)

	// GenerateSummary produces a short summary of the opening message of
	// a conversation, used as the conversation title.
	GenerateSummary(ctx context.Context, message string) (string, error)

	// EmbedQuery returns an embedding vector for a search query, used to
	// rank results by semantic similarity. Best-effort: callers fall back
	// to text ranking on error.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}
