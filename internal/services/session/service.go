// Package session provides the two-tier session cache: a bounded in-process
// map in front of the durable conversation store.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/plotari/chat-service/internal/core/docdb"
	domainerrors "github.com/plotari/chat-service/internal/domain/errors"
	"github.com/plotari/chat-service/internal/domain/models"
)

const (
	// DefaultCapacity is the default bound of the volatile tier.
	DefaultCapacity = 100

	// DefaultInactivityThreshold is how long a volatile entry may sit
	// untouched before the maintenance pass evicts it.
	DefaultInactivityThreshold = time.Hour
)

// CacheStats describes the volatile tier.
type CacheStats struct {
	Entries  int `json:"entries"`
	Capacity int `json:"capacity"`
}

// MaintenanceResult reports what one maintenance pass did.
type MaintenanceResult struct {
	DurableDeactivated int64 `json:"durableDeactivated"`
	VolatileEvicted    int   `json:"volatileEvicted"`
}

// Service manages conversation sessions across both cache tiers.
type Service interface {
	// Get retrieves a session, reading through to the durable tier on a
	// volatile miss. Returns nil when no active session exists.
	Get(ctx context.Context, userID, sessionID string) (*models.ConversationSession, error)

	// GetOrCreate retrieves a session or starts an empty one.
	GetOrCreate(ctx context.Context, userID, sessionID string) (*models.ConversationSession, error)

	// Save writes the session to both tiers. A non-empty summary is stored
	// on the durable record. Durable failures degrade to volatile-only.
	Save(ctx context.Context, session *models.ConversationSession, summary string) error

	// Clear removes a session from both tiers. Idempotent: reports whether
	// anything was removed.
	Clear(ctx context.Context, userID, sessionID string) (bool, error)

	// History returns up to limit most recent messages of a session.
	History(ctx context.Context, userID, sessionID string, limit int) ([]models.Message, error)

	// ListSessions lists a user's conversations, most recent first.
	ListSessions(ctx context.Context, userID string) ([]models.ConversationSummary, error)

	// Stats aggregates conversation metrics; empty userID means all users.
	Stats(ctx context.Context, userID string) (*models.ConversationStats, error)

	// CacheStats describes the volatile tier.
	CacheStats() CacheStats

	// LockSession serializes the load-mutate-save cycle for one session.
	// The returned function releases the lock.
	LockSession(userID, sessionID string) func()

	// Maintain runs one maintenance pass: deactivates expired durable
	// records and evicts idle volatile entries. Idempotent.
	Maintain(ctx context.Context) MaintenanceResult
}

// Config holds the configuration for the session service.
type Config struct {
	Conversations       docdb.ConversationsCollection
	Capacity            int
	InactivityThreshold time.Duration
}

type service struct {
	conversations       docdb.ConversationsCollection
	volatile            *volatileTier
	locks               sessionLocks
	inactivityThreshold time.Duration
}

// NewService creates a new session service.
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Conversations == nil {
		return nil, fmt.Errorf("conversations collection is required")
	}

	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	threshold := cfg.InactivityThreshold
	if threshold <= 0 {
		threshold = DefaultInactivityThreshold
	}

	return &service{
		conversations:       cfg.Conversations,
		volatile:            newVolatileTier(capacity),
		inactivityThreshold: threshold,
	}, nil
}

func (s *service) Get(ctx context.Context, userID, sessionID string) (*models.ConversationSession, error) {
	key := sessionKey{userID: userID, sessionID: sessionID}

	if cached := s.volatile.get(key); cached != nil {
		return cached, nil
	}

	record, err := s.conversations.Get(ctx, userID, sessionID)
	if err != nil {
		// Durable outage degrades to volatile-only; a miss here is a miss.
		log.Warn().Err(err).Str("userId", userID).Str("sessionId", sessionID).
			Msg("durable session read failed, continuing volatile-only")
		return nil, nil
	}
	if record == nil {
		return nil, nil
	}

	restored := record.Session
	restored.BackingID = record.ID
	s.volatile.put(key, &restored)
	return &restored, nil
}

func (s *service) GetOrCreate(ctx context.Context, userID, sessionID string) (*models.ConversationSession, error) {
	existing, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	created := models.NewConversationSession(userID, sessionID)
	s.volatile.put(sessionKey{userID: userID, sessionID: sessionID}, created)
	return created, nil
}

func (s *service) Save(ctx context.Context, session *models.ConversationSession, summary string) error {
	if session == nil {
		return fmt.Errorf("session is required")
	}

	session.LastActivity = time.Now().UTC()
	s.volatile.put(sessionKey{userID: session.UserID, sessionID: session.SessionID}, session)

	record := &models.ConversationRecord{
		ID:        session.BackingID,
		UserID:    session.UserID,
		SessionID: session.SessionID,
		Session:   *session,
		Summary:   summary,
	}

	var err error
	if session.BackingID == "" {
		if err = s.conversations.Create(ctx, record); err == nil {
			session.BackingID = record.ID
		}
	} else {
		err = s.conversations.Update(ctx, record)
	}
	if err != nil {
		// Volatile copy stays authoritative for the rest of the session.
		log.Warn().Err(err).Str("userId", session.UserID).Str("sessionId", session.SessionID).
			Msg("durable session write failed, continuing volatile-only")
	}
	return nil
}

func (s *service) Clear(ctx context.Context, userID, sessionID string) (bool, error) {
	removedVolatile := s.volatile.remove(sessionKey{userID: userID, sessionID: sessionID})

	removedDurable, err := s.conversations.Deactivate(ctx, userID, sessionID)
	if err != nil {
		log.Warn().Err(err).Str("userId", userID).Str("sessionId", sessionID).
			Msg("durable session deactivate failed")
		removedDurable = false
	}

	return removedVolatile || removedDurable, nil
}

func (s *service) History(ctx context.Context, userID, sessionID string, limit int) ([]models.Message, error) {
	// Readers take the same per-session lock as the chat turn so a
	// concurrent append never races the message scan.
	unlock := s.LockSession(userID, sessionID)
	defer unlock()

	session, err := s.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domainerrors.NewNotFoundError("session", sessionID)
	}

	turns := session.LastTurns(limit)
	messages := make([]models.Message, len(turns))
	copy(messages, turns)
	return messages, nil
}

func (s *service) ListSessions(ctx context.Context, userID string) ([]models.ConversationSummary, error) {
	records, err := s.conversations.ListByUser(ctx, &docdb.ListConversationsOptions{UserID: userID})
	if err != nil {
		return nil, domainerrors.NewServiceUnavailableError("conversation store", err)
	}

	summaries := make([]models.ConversationSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, models.ConversationSummary{
			SessionID:    record.SessionID,
			CreatedAt:    record.CreatedAt,
			LastActivity: record.LastActivity,
			MessageCount: record.MessageCount,
			Summary:      record.Summary,
		})
	}
	return summaries, nil
}

func (s *service) Stats(ctx context.Context, userID string) (*models.ConversationStats, error) {
	stats, err := s.conversations.Stats(ctx, userID)
	if err != nil {
		return nil, domainerrors.NewServiceUnavailableError("conversation store", err)
	}
	return stats, nil
}

func (s *service) CacheStats() CacheStats {
	return CacheStats{
		Entries:  s.volatile.size(),
		Capacity: s.volatile.capacity,
	}
}

func (s *service) LockSession(userID, sessionID string) func() {
	return s.locks.lock(userID, sessionID)
}

func (s *service) Maintain(ctx context.Context) MaintenanceResult {
	result := MaintenanceResult{}

	deactivated, err := s.conversations.CleanupExpired(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("expired conversation cleanup failed")
	} else {
		result.DurableDeactivated = deactivated
	}

	cutoff := time.Now().UTC().Add(-s.inactivityThreshold)
	result.VolatileEvicted = s.volatile.evictIdle(cutoff)

	if result.DurableDeactivated > 0 || result.VolatileEvicted > 0 {
		log.Info().Int64("durableDeactivated", result.DurableDeactivated).
			Int("volatileEvicted", result.VolatileEvicted).
			Msg("session maintenance pass completed")
	}
	return result
}
