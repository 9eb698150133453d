// Package compose turns search results plus conversation context into a
// natural-language reply. The completion service is the primary path with a
// deterministic template fallback.
package compose

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/plotari/chat-service/internal/core/completion"
	"github.com/plotari/chat-service/internal/domain/models"
)

const (
	// DefaultReplyTimeout bounds the completion call. On timeout the
	// composer falls back to templates.
	DefaultReplyTimeout = 15 * time.Second

	// conversationalTurns is how much history a conversational reply sees.
	conversationalTurns = 5

	// historyTurns is how many prior turns a result reply sees.
	historyTurns = 2
)

// Composer produces the assistant reply for a chat turn.
type Composer interface {
	// Compose never fails: on any completion error it falls back to a
	// deterministic template.
	Compose(ctx context.Context, message string, properties []models.Property, pois []models.POI, intent *models.SearchIntent, session *models.ConversationSession) string
}

// Config holds the configuration for the composer.
type Config struct {
	// CompletionService is the primary reply generator. Optional; when nil
	// every reply comes from the template fallback.
	CompletionService completion.Service
	ReplyTimeout      time.Duration
}

type composer struct {
	completionService completion.Service
	timeout           time.Duration
}

// NewComposer creates a new response composer.
func NewComposer(cfg *Config) (Composer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	timeout := cfg.ReplyTimeout
	if timeout == 0 {
		timeout = DefaultReplyTimeout
	}

	return &composer{
		completionService: cfg.CompletionService,
		timeout:           timeout,
	}, nil
}

func (c *composer) Compose(ctx context.Context, message string, properties []models.Property, pois []models.POI, intent *models.SearchIntent, session *models.ConversationSession) string {
	if intent != nil && intent.Type == models.IntentGeneralConversation {
		return c.conversationalReply(ctx, message, session)
	}
	return c.resultReply(ctx, message, properties, pois, intent, session)
}

func (c *composer) conversationalReply(ctx context.Context, message string, session *models.ConversationSession) string {
	if c.completionService == nil {
		return cannedConversationalReply(message)
	}

	messages := []completion.ChatMessage{
		{Role: completion.RoleSystem, Content: conversationalSystemPrompt},
	}
	if session != nil {
		for _, turn := range session.LastTurns(conversationalTurns) {
			messages = append(messages, completion.ChatMessage{
				Role:    string(turn.Role),
				Content: turn.Content,
			})
		}
	}
	messages = append(messages, completion.ChatMessage{
		Role:    completion.RoleUser,
		Content: message,
	})

	replyCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.completionService.GenerateReply(replyCtx, messages)
	if err != nil {
		log.Warn().Err(err).Msg("conversational reply generation failed, using canned reply")
		return cannedConversationalReply(message)
	}
	return reply
}

func (c *composer) resultReply(ctx context.Context, message string, properties []models.Property, pois []models.POI, intent *models.SearchIntent, session *models.ConversationSession) string {
	if c.completionService == nil {
		return fallbackResultReply(properties, pois, intent)
	}

	userContent := fmt.Sprintf("Query: %s\n\n%s", message,
		buildResultContext(properties, pois, intent, session))

	replyCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reply, err := c.completionService.GenerateReply(replyCtx, []completion.ChatMessage{
		{Role: completion.RoleSystem, Content: resultSystemPrompt},
		{Role: completion.RoleUser, Content: userContent},
	})
	if err != nil {
		log.Warn().Err(err).Msg("result reply generation failed, using template")
		return fallbackResultReply(properties, pois, intent)
	}
	return reply
}
