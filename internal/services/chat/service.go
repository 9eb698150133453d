// Package chat orchestrates a full chat turn: session load, intent
// classification, search dispatch, response composition, and session save.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/plotari/chat-service/internal/core/completion"
	"github.com/plotari/chat-service/internal/core/search"
	domainerrors "github.com/plotari/chat-service/internal/domain/errors"
	"github.com/plotari/chat-service/internal/domain/models"
	"github.com/plotari/chat-service/internal/services/compose"
	"github.com/plotari/chat-service/internal/services/dispatch"
	"github.com/plotari/chat-service/internal/services/intent"
	"github.com/plotari/chat-service/internal/services/session"
)

// MaxResultsInResponse caps how many properties and POIs a chat response
// carries; the metadata still reports the full counts.
const MaxResultsInResponse = 5

// Request is one user chat turn.
type Request struct {
	Message   string
	UserID    string
	SessionID string
	Context   map[string]any
}

// Metadata describes what a chat turn did.
type Metadata struct {
	SearchIntent         *models.SearchIntent `json:"search_intent"`
	TotalPropertiesFound int                  `json:"total_properties_found"`
	TotalPOIsFound       int                  `json:"total_pois_found"`
	UserID               string               `json:"user_id"`
	SessionID            string               `json:"session_id"`
	ConversationLength   int                  `json:"conversation_length"`
}

// Response is the assistant's answer to one chat turn.
type Response struct {
	Message    string            `json:"message"`
	Properties []models.Property `json:"properties_found,omitempty"`
	POIs       []models.POI      `json:"pois_found,omitempty"`
	Metadata   Metadata          `json:"metadata"`
}

// Service processes chat turns.
type Service interface {
	ProcessMessage(ctx context.Context, req *Request) (*Response, error)
}

// Config holds the orchestrator's collaborators.
type Config struct {
	Classifier intent.Classifier
	Sessions   session.Service
	Dispatcher dispatch.Dispatcher
	Composer   compose.Composer

	// CompletionService powers the first-message summary and query
	// embeddings. Optional.
	CompletionService completion.Service

	// Analytics records searches. Optional; failures are best-effort.
	Analytics search.Analytics
}

type service struct {
	classifier        intent.Classifier
	sessions          session.Service
	dispatcher        dispatch.Dispatcher
	composer          compose.Composer
	completionService completion.Service
	analytics         search.Analytics
}

// NewService creates a new chat orchestrator.
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("intent classifier is required")
	}
	if cfg.Sessions == nil {
		return nil, fmt.Errorf("session service is required")
	}
	if cfg.Dispatcher == nil {
		return nil, fmt.Errorf("search dispatcher is required")
	}
	if cfg.Composer == nil {
		return nil, fmt.Errorf("response composer is required")
	}

	return &service{
		classifier:        cfg.Classifier,
		sessions:          cfg.Sessions,
		dispatcher:        cfg.Dispatcher,
		composer:          cfg.Composer,
		completionService: cfg.CompletionService,
		analytics:         cfg.Analytics,
	}, nil
}

func (s *service) ProcessMessage(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || strings.TrimSpace(req.Message) == "" {
		return nil, domainerrors.NewBadRequestError("Please provide a valid message.", "")
	}
	if req.UserID == "" {
		return nil, domainerrors.NewBadRequestError("user_id is required", "")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	// Serialize the load-mutate-save cycle so concurrent turns for the
	// same session cannot lose messages.
	unlock := s.sessions.LockSession(req.UserID, sessionID)
	defer unlock()

	conversation, err := s.sessions.GetOrCreate(ctx, req.UserID, sessionID)
	if err != nil {
		return nil, domainerrors.NewInternalError("failed to load session", err)
	}

	conversation.Context.ApplySignals(req.Context)
	conversation.AddUserMessage(req.Message)

	summary := s.firstMessageSummary(ctx, conversation, req.Message)

	searchIntent := s.classifier.Classify(ctx, req.Message, &conversation.Context)

	start := time.Now()
	result := s.dispatcher.Dispatch(ctx, searchIntent, s.queryEmbedding(ctx, searchIntent))
	s.logSearch(ctx, req, sessionID, searchIntent, result, time.Since(start))

	reply := s.composer.Compose(ctx, req.Message, result.Properties, result.POIs, searchIntent, conversation)

	conversation.Context.Merge(searchIntent, result.Properties)
	conversation.AddAssistantMessage(reply, searchIntent,
		capProperties(result.Properties), capPOIs(result.POIs))

	if err := s.sessions.Save(ctx, conversation, summary); err != nil {
		return nil, domainerrors.NewInternalError("failed to save session", err)
	}

	return &Response{
		Message:    reply,
		Properties: capProperties(result.Properties),
		POIs:       capPOIs(result.POIs),
		Metadata: Metadata{
			SearchIntent:         searchIntent,
			TotalPropertiesFound: len(result.Properties),
			TotalPOIsFound:       len(result.POIs),
			UserID:               req.UserID,
			SessionID:            sessionID,
			ConversationLength:   len(conversation.Messages),
		},
	}, nil
}

// firstMessageSummary generates a conversation title from the opening
// message. Best-effort: failures just leave the record untitled.
func (s *service) firstMessageSummary(ctx context.Context, conversation *models.ConversationSession, message string) string {
	if len(conversation.Messages) != 1 || s.completionService == nil {
		return ""
	}

	summary, err := s.completionService.GenerateSummary(ctx, message)
	if err != nil {
		log.Warn().Err(err).Msg("chat summary generation failed")
		return ""
	}
	return summary
}

// queryEmbedding fetches an embedding for plain property searches so the
// backend can rank semantically. Best-effort.
func (s *service) queryEmbedding(ctx context.Context, searchIntent *models.SearchIntent) []float32 {
	if s.completionService == nil || searchIntent == nil {
		return nil
	}
	if searchIntent.Type != models.IntentPropertySearch || searchIntent.SearchMode == models.SearchModeNearPOIs {
		return nil
	}

	embedding, err := s.completionService.EmbedQuery(ctx, searchIntent.Query)
	if err != nil {
		log.Debug().Err(err).Msg("query embedding failed, using text ranking")
		return nil
	}
	return embedding
}

func (s *service) logSearch(ctx context.Context, req *Request, sessionID string, searchIntent *models.SearchIntent, result *dispatch.Result, elapsed time.Duration) {
	if s.analytics == nil || !searchIntent.IsSearch() {
		return
	}

	resultCount := len(result.Properties)
	if resultCount == 0 {
		resultCount = len(result.POIs)
	}
	zpids := make([]string, 0, len(result.Properties))
	for _, property := range result.Properties {
		zpids = append(zpids, property.ZPID)
	}

	entry := &search.LogEntry{
		UserID:      req.UserID,
		SessionID:   sessionID,
		Query:       req.Message,
		Intent:      searchIntent,
		ResultCount: resultCount,
		ResultZPIDs: zpids,
		DurationMs:  elapsed.Milliseconds(),
	}
	if err := s.analytics.LogSearch(ctx, entry); err != nil {
		log.Warn().Err(err).Msg("search log write failed")
	}
}

func capProperties(properties []models.Property) []models.Property {
	if len(properties) > MaxResultsInResponse {
		return properties[:MaxResultsInResponse]
	}
	return properties
}

func capPOIs(pois []models.POI) []models.POI {
	if len(pois) > MaxResultsInResponse {
		return pois[:MaxResultsInResponse]
	}
	return pois
}
