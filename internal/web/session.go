package web

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/page"
)

// Session is one visitor's page state. Every handler touching a session
// holds its lock for the whole request, so a visitor's events are applied
// one at a time in arrival order.
type Session struct {
	mu sync.Mutex

	ID       string
	lastSeen time.Time

	ctrl      *page.Controller
	geometry  page.Snapshot
	feed      page.Feed
	release   func()
	navigator *page.Navigator

	// scrollTarget is set by the navigator and drained into the response.
	scrollTarget page.SectionID
}

func newSession(id string, site *content.Site, referenceLine float64, now time.Time) (*Session, error) {
	ctrl, err := page.ForSite(site)
	if err != nil {
		return nil, err
	}

	s := &Session{ID: id, lastSeen: now, ctrl: ctrl}
	geometry := page.GeometryFunc(func(id page.SectionID) (page.Rect, bool) {
		return s.geometry.RegionBounds(id)
	})
	s.release = ctrl.Tracker(geometry, referenceLine).Mount(&s.feed)
	s.navigator = ctrl.Navigator(page.ScrollHostFunc(func(id page.SectionID) {
		s.scrollTarget = id
	}), geometry)
	return s, nil
}

// Report applies one viewport report from the browser: the new geometry
// replaces the old one and a scroll event is delivered to the tracker.
func (s *Session) Report(regions page.Snapshot) page.SectionID {
	s.geometry = regions
	s.feed.Emit()
	return s.ctrl.Active()
}

// Navigate runs the navigator and returns the section the browser should
// scroll to, if any.
func (s *Session) Navigate(id page.SectionID) (page.SectionID, bool) {
	s.scrollTarget = ""
	if !s.navigator.Navigate(id) {
		return "", false
	}
	target := s.scrollTarget
	s.scrollTarget = ""
	return target, true
}

func (s *Session) Controller() *page.Controller { return s.ctrl }

// SessionStore keeps sessions in memory keyed by their cookie token.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	limit    int
	line     float64
	now      func() time.Time
}

// NewSessionStore keeps at most limit sessions; limit <= 0 means no cap.
func NewSessionStore(ttl time.Duration, limit int, referenceLine float64) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		limit:    limit,
		line:     referenceLine,
		now:      time.Now,
	}
}

// Get returns the live session for token.
func (st *SessionStore) Get(token string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[token]
	if !ok {
		return nil, false
	}
	s.lastSeen = st.now()
	return s, true
}

// Create starts a session bound to site. The site stays fixed for the
// session's lifetime even if content is reloaded. When the store is full the
// least recently seen session is dropped and its tracker released.
func (st *SessionStore) Create(site *content.Site) (*Session, error) {
	token := generateToken()
	s, err := newSession(token, site, st.line, st.now())
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	var evicted *Session
	if st.limit > 0 && len(st.sessions) >= st.limit {
		for _, cand := range st.sessions {
			if evicted == nil || cand.lastSeen.Before(evicted.lastSeen) {
				evicted = cand
			}
		}
		delete(st.sessions, evicted.ID)
	}
	st.sessions[token] = s
	st.mu.Unlock()

	if evicted != nil {
		evicted.mu.Lock()
		evicted.release()
		evicted.mu.Unlock()
	}
	return s, nil
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the TTL and releases their
// tracker subscriptions.
func (st *SessionStore) Sweep() int {
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	var expired []*Session
	for token, s := range st.sessions {
		if s.lastSeen.Before(cutoff) {
			expired = append(expired, s)
			delete(st.sessions, token)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.mu.Lock()
		s.release()
		s.mu.Unlock()
	}
	return len(expired)
}

// RunJanitor sweeps every interval until ctx is done.
func (st *SessionStore) RunJanitor(ctx context.Context, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := st.Sweep(); n > 0 {
				logger.Debug("sessions expired", slog.Int("count", n), slog.Int("live", st.Len()))
			}
		}
	}
}

func generateToken() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		panic("web: crypto/rand failed: " + err.Error())
	}
	return hex.EncodeToString(bytes)
}

var hashingSalt = generateToken()

// hashIP returns a short salted hash of a client address for logs. The salt
// lives only as long as the process, so hashes cannot be joined across runs.
func hashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + hashingSalt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}
