package session

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// sessionLocks serializes the load-mutate-save cycle per session so
// concurrent requests for the same session cannot lose updates. Striping
// keeps the lock table bounded; distinct sessions sharing a stripe only
// cost contention, never correctness.
type sessionLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *sessionLocks) lock(userID, sessionID string) func() {
	h := fnv.New32a()
	h.Write([]byte(userID))
	h.Write([]byte{0})
	h.Write([]byte(sessionID))
	stripe := &l.stripes[h.Sum32()%lockStripes]

	stripe.Lock()
	return stripe.Unlock
}
