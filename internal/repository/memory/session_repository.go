package memory

import (
	"chainchat-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps session records in memory for the process
// lifetime. Entries never expire and are never purged: sessions are not
// evicted in this design, which is a known capacity risk for a
// long-running deployment rather than a bug.
type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	c := cache.New(cache.NoExpiration, 0)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.NoExpiration)
}

// Add stores the session only if the id is not present yet. Returns
// false when another goroutine created it first.
func (r *SessionRepository) Add(session *store.Session) bool {
	return r.cache.Add(session.ID, session, cache.NoExpiration) == nil
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Count() int {
	return r.cache.ItemCount()
}
