package session

import (
	"sync"
	"time"

	"github.com/plotari/chat-service/internal/domain/models"
)

type sessionKey struct {
	userID    string
	sessionID string
}

type volatileEntry struct {
	session     *models.ConversationSession
	lastTouched time.Time
}

// volatileTier is the in-process tier of the session cache: a bounded map
// protected by a mutex. On insert when full it evicts the entry with the
// oldest last_touched. A linear scan is fine at this capacity.
type volatileTier struct {
	mu       sync.Mutex
	capacity int
	entries  map[sessionKey]*volatileEntry
}

func newVolatileTier(capacity int) *volatileTier {
	return &volatileTier{
		capacity: capacity,
		entries:  make(map[sessionKey]*volatileEntry, capacity),
	}
}

func (t *volatileTier) get(key sessionKey) *models.ConversationSession {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.entries[key]
	if !ok {
		return nil
	}
	entry.lastTouched = time.Now().UTC()
	return entry.session
}

func (t *volatileTier) put(key sessionKey, session *models.ConversationSession) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if entry, ok := t.entries[key]; ok {
		entry.session = session
		entry.lastTouched = time.Now().UTC()
		return
	}

	if len(t.entries) >= t.capacity {
		t.evictOldestLocked()
	}
	t.entries[key] = &volatileEntry{
		session:     session,
		lastTouched: time.Now().UTC(),
	}
}

func (t *volatileTier) evictOldestLocked() {
	var oldestKey sessionKey
	var oldest time.Time
	first := true
	for key, entry := range t.entries {
		if first || entry.lastTouched.Before(oldest) {
			oldestKey = key
			oldest = entry.lastTouched
			first = false
		}
	}
	if !first {
		delete(t.entries, oldestKey)
	}
}

func (t *volatileTier) remove(key sessionKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.entries[key]; !ok {
		return false
	}
	delete(t.entries, key)
	return true
}

// evictIdle removes entries not touched since the cutoff and reports how
// many were removed.
func (t *volatileTier) evictIdle(cutoff time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	evicted := 0
	for key, entry := range t.entries {
		if entry.lastTouched.Before(cutoff) {
			delete(t.entries, key)
			evicted++
		}
	}
	return evicted
}

func (t *volatileTier) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
