package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/nconklindev/stylematch/internal/compare"
)

const (
	sessionCookie = "stylematch_session"
	sessionTTL    = 2 * time.Hour
)

type sessionEntry struct {
	session  *compare.Session
	lastSeen time.Time
}

// sessionStore keeps one compare.Session per browser, in memory only.
type sessionStore struct {
	mu      sync.Mutex
	opts    compare.Options
	ttl     time.Duration
	entries map[string]*sessionEntry
	now     func() time.Time
}

func newSessionStore(opts compare.Options, ttl time.Duration) *sessionStore {
	return &sessionStore{
		opts:    opts,
		ttl:     ttl,
		entries: make(map[string]*sessionEntry),
		now:     time.Now,
	}
}

// get returns the session named by id, or nil when unknown or expired.
func (st *sessionStore) get(id string) *compare.Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	entry, ok := st.entries[id]
	if !ok {
		return nil
	}
	if st.now().Sub(entry.lastSeen) > st.ttl {
		delete(st.entries, id)
		return nil
	}
	entry.lastSeen = st.now()
	return entry.session
}

// create registers a new session and drops expired ones.
func (st *sessionStore) create() *compare.Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	for id, entry := range st.entries {
		if now.Sub(entry.lastSeen) > st.ttl {
			delete(st.entries, id)
		}
	}

	session := compare.NewSession(st.opts)
	st.entries[session.ID] = &sessionEntry{session: session, lastSeen: now}
	return session
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.entries)
}

// sessionFor returns the caller's session, creating one and setting the cookie when needed.
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *compare.Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if session := s.sessions.get(c.Value); session != nil {
			return session
		}
	}

	session := s.sessions.create()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(s.sessions.ttl.Seconds()),
	})
	return session
}

// lookupSession finds the caller's session without creating one.
func (s *Server) lookupSession(r *http.Request) *compare.Session {
	id := r.URL.Query().Get("session")
	if id == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}
	}
	if id == "" {
		return nil
	}
	return s.sessions.get(id)
}
