package notes

import (
	"context"
	"sync"

	"github.com/SaiNageswarS/medbook-agent/memory"
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultMaxSessions = 1000

// SessionStore keeps the live QA sessions keyed by appointment id. The least
// recently used idle session is evicted once the cache is full; its history
// survives in the conversation manager when one is configured. A session
// that is in use is never replaced, even if the cache dropped it.
type SessionStore struct {
	mu     sync.Mutex
	cache  *lru.Cache[string, *Session]
	active map[string]*lease
	convs  *memory.ConversationManager
}

type lease struct {
	session *Session
	refs    int
}

func NewSessionStore(max int, convs *memory.ConversationManager) *SessionStore {
	if max <= 0 {
		max = DefaultMaxSessions
	}
	// lru.New only fails for a non-positive size
	cache, _ := lru.New[string, *Session](max)
	return &SessionStore{cache: cache, active: map[string]*lease{}, convs: convs}
}

// Acquire returns the session for the appointment, restoring persisted
// history on first use. Every caller gets the same *Session until all of
// them have called release.
func (st *SessionStore) Acquire(ctx context.Context, appointmentID string) (*Session, func()) {
	if s, ok := st.acquireCached(appointmentID); ok {
		return s, st.releaser(appointmentID)
	}

	loaded := sessionFrom(st.convs.LoadSession(ctx, appointmentID))

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.acquireLocked(appointmentID); ok {
		return s, st.releaser(appointmentID)
	}
	st.cache.Add(appointmentID, loaded)
	st.active[appointmentID] = &lease{session: loaded, refs: 1}
	return loaded, st.releaser(appointmentID)
}

func (st *SessionStore) acquireCached(appointmentID string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.acquireLocked(appointmentID)
}

func (st *SessionStore) acquireLocked(appointmentID string) (*Session, bool) {
	if l, ok := st.active[appointmentID]; ok {
		l.refs++
		st.cache.Add(appointmentID, l.session)
		return l.session, true
	}
	if s, ok := st.cache.Get(appointmentID); ok {
		st.active[appointmentID] = &lease{session: s, refs: 1}
		return s, true
	}
	return nil, false
}

func (st *SessionStore) releaser(appointmentID string) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			st.mu.Lock()
			defer st.mu.Unlock()
			l, ok := st.active[appointmentID]
			if !ok {
				return
			}
			if l.refs--; l.refs == 0 {
				delete(st.active, appointmentID)
			}
		})
	}
}

// Save persists the session's history.
func (st *SessionStore) Save(ctx context.Context, s *Session) error {
	return st.convs.SaveSession(ctx, s.snapshot())
}

// Reset forgets the appointment's conversation in memory and in storage.
func (st *SessionStore) Reset(ctx context.Context, appointmentID string) error {
	st.mu.Lock()
	st.cache.Remove(appointmentID)
	delete(st.active, appointmentID)
	st.mu.Unlock()
	return st.convs.DeleteSession(ctx, appointmentID)
}

// Len counts the cached sessions.
func (st *SessionStore) Len() int {
	return st.cache.Len()
}

func (st *SessionStore) inUse() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.active)
}
