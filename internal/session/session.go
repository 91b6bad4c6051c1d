// Package session tracks the authentication token and the user it identifies.
package session

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"

	"taskboard/internal/logging"
)

// ErrNoToken is returned when an authenticated operation runs without a session.
var ErrNoToken = errors.New("not logged in")

// Session is the single source of truth for "is authenticated".
type Session struct {
	mu     sync.RWMutex
	store  Store
	token  string
	userID int64
}

// Open hydrates a session from the store. A persisted token that cannot be
// decoded is discarded and the session starts logged out; no error surfaces.
func Open(store Store) *Session {
	s := &Session{store: store}

	rec, err := store.Load()
	if err != nil {
		if !errors.Is(err, ErrNoRecord) {
			logging.Logger.WithError(err).Warn("discarding unreadable session")
			s.clearStore()
		}
		return s
	}

	claims, err := Decode(rec.Token)
	if err != nil {
		logging.Logger.WithError(err).Warn("discarding invalid session token")
		s.clearStore()
		return s
	}

	s.token = rec.Token
	s.userID = claims.UserID
	if rec.UserID != claims.UserID {
		if err := store.Save(Record{Token: rec.Token, UserID: claims.UserID}); err != nil {
			logging.Logger.WithError(err).Warn("failed to persist decoded user id")
		}
	}
	return s
}

// Login decodes the token and, only if that succeeds, stores it as the
// current session.
func (s *Session) Login(token string) error {
	claims, err := Decode(token)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(Record{Token: token, UserID: claims.UserID}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	s.token = token
	s.userID = claims.UserID
	logging.Logger.WithField("user_id", claims.UserID).Info("session started")
	return nil
}

// Logout clears the stored token and user id. Logging out twice is fine.
// When the store cannot be cleared the session stays as it was.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.token = ""
	s.userID = 0
	logging.Logger.Info("session ended")
	return nil
}

// Authenticated reports whether a token is held.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// Token returns the raw bearer token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// UserID returns the id decoded from the token, or 0 when logged out.
func (s *Session) UserID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Require returns ErrNoToken when logged out.
func (s *Session) Require() error {
	if !s.Authenticated() {
		return ErrNoToken
	}
	return nil
}

func (s *Session) clearStore() {
	if err := s.store.Clear(); err != nil {
		logging.Logger.WithError(err).Warn("failed to clear session store")
	}
}

// TokenSource adapts a Session to oauth2.TokenSource so oauth2.Transport can
// attach it as the bearer credential. It fails with ErrNoToken while logged
// out, which stops the request before it is sent.
func TokenSource(s *Session) oauth2.TokenSource {
	return sessionTokenSource{s: s}
}

type sessionTokenSource struct {
	s *Session
}

func (ts sessionTokenSource) Token() (*oauth2.Token, error) {
	tok := ts.s.Token()
	if tok == "" {
		return nil, ErrNoToken
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}
