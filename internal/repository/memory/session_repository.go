package memory

import (
	"sync"

	"attention-cv-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository is the in-memory session store. Sessions are created
// lazily and kept for the process lifetime (no expiration, no janitor).
type SessionRepository struct {
	cache *cache.Cache
	mu    sync.Mutex // serializes lazy creation only
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(cache.NoExpiration, 0)
	return &SessionRepository{
		cache: c,
	}
}

// GetOrCreate returns the session for the given id, creating it on first
// access. Idempotent: repeated calls with the same id return the same
// underlying instance, never a copy.
func (r *SessionRepository) GetOrCreate(sessionID string) *store.Session {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-check under the lock: another request may have created it.
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session)
	}
	session := store.NewSession(sessionID)
	r.cache.Set(sessionID, session, cache.NoExpiration)
	return session
}

// Get returns the session without creating it.
func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

// Clear empties the message log of a known session. Returns false if the
// session was never created.
func (r *SessionRepository) Clear(sessionID string) bool {
	session, found := r.Get(sessionID)
	if !found {
		return false
	}
	session.Clear()
	return true
}

// ListSessions returns the ids of all sessions created so far.
func (r *SessionRepository) ListSessions() []string {
	items := r.cache.Items()
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	return ids
}
