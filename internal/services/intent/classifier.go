// Package intent classifies user messages into search intents. The
// classifier tries the completion service first and falls back to rule
// matching; it never fails outward.
package intent

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/plotari/chat-service/internal/core/completion"
	"github.com/plotari/chat-service/internal/domain/models"
)

// DefaultExtractionTimeout bounds the completion service call. On timeout
// the classifier falls back to rules.
const DefaultExtractionTimeout = 10 * time.Second

// Classifier turns a user utterance plus conversation context into a typed
// SearchIntent.
type Classifier interface {
	// Classify never fails: on any internal error it returns the default
	// property search intent over the raw message.
	Classify(ctx context.Context, message string, sessionContext *models.SessionContext) *models.SearchIntent
}

// Config holds the configuration for the classifier.
type Config struct {
	// CompletionService is the primary extractor. Optional; when nil the
	// classifier goes straight to rules.
	CompletionService completion.Service
	ExtractionTimeout time.Duration
}

type classifier struct {
	completionService completion.Service
	timeout           time.Duration
}

// NewClassifier creates a new intent classifier.
func NewClassifier(cfg *Config) (Classifier, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	timeout := cfg.ExtractionTimeout
	if timeout == 0 {
		timeout = DefaultExtractionTimeout
	}

	return &classifier{
		completionService: cfg.CompletionService,
		timeout:           timeout,
	}, nil
}

func (c *classifier) Classify(ctx context.Context, message string, sessionContext *models.SessionContext) *models.SearchIntent {
	// Empty messages short-circuit without spending a completion call.
	if isBlank(message) {
		return models.DefaultSearchIntent(message)
	}

	if c.completionService != nil {
		extractCtx, cancel := context.WithTimeout(ctx, c.timeout)
		candidate, err := c.completionService.ExtractIntent(extractCtx, message, sessionContext)
		cancel()

		switch {
		case err != nil:
			log.Warn().Err(err).Msg("intent extraction failed, falling back to rules")
		case !candidate.Valid():
			log.Warn().Str("message", truncate(message, 50)).
				Msg("extracted intent invalid, falling back to rules")
		default:
			return candidate
		}
	}

	intent := classifyByRules(message, sessionContext)
	if !intent.Valid() {
		return models.DefaultSearchIntent(message)
	}
	return intent
}
