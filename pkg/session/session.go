package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/velomax/partner-client/pkg/logger"
	"github.com/velomax/partner-client/pkg/store"
)

// Store field names. The three keys the app persists between runs.
const (
	KeyToken = "token"
	KeyUser  = "user"
	KeyRole  = "role"
)

// Session owns the persisted auth state: bearer token, cached user document,
// and role. It is injected into the API client rather than read from ambient
// globals, so tests can swap the backing store.
//
// Reads are fail-soft: a store error is logged and reported as "absent". The
// session never panics and never surfaces storage errors to callers.
type Session struct {
	store store.Store
	logg  *logger.Logger

	mu       sync.Mutex
	onChange func(authenticated bool)
}

// New builds a session over the provided store. The logger may be nil.
func New(s store.Store, logg *logger.Logger) *Session {
	return &Session{store: s, logg: logg}
}

// OnChange registers a callback fired after credentials are saved or cleared.
// The navigation owner uses it to re-pick the active screen instead of polling.
func (s *Session) OnChange(fn func(authenticated bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

func (s *Session) notify(authenticated bool) {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(authenticated)
	}
}

// SaveCredentials persists the login result. Partial writes are possible when
// the store fails midway; the failure is logged and the session reports
// whatever state actually stuck.
func (s *Session) SaveCredentials(ctx context.Context, token, userJSON, role string) {
	s.set(ctx, KeyToken, token)
	s.set(ctx, KeyUser, userJSON)
	if role != "" {
		s.set(ctx, KeyRole, role)
	}
	s.notify(true)
}

// SaveUser refreshes only the cached user document.
func (s *Session) SaveUser(ctx context.Context, userJSON string) {
	s.set(ctx, KeyUser, userJSON)
}

// Token returns the stored bearer token, or "" when absent.
func (s *Session) Token(ctx context.Context) string {
	return s.get(ctx, KeyToken)
}

// User returns the cached user JSON document, or "" when absent.
func (s *Session) User(ctx context.Context) string {
	return s.get(ctx, KeyUser)
}

// Role returns the stored role, or "" when absent.
func (s *Session) Role(ctx context.Context) string {
	return s.get(ctx, KeyRole)
}

// Clear wipes all session keys. Idempotent: clearing an empty session is fine.
func (s *Session) Clear(ctx context.Context) {
	if err := s.store.Del(ctx, KeyToken, KeyUser, KeyRole); err != nil {
		s.warn(ctx, "clearing session", err)
	}
	s.notify(false)
}

// IsAuthenticated reports whether both a token and a cached user are present.
func (s *Session) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != "" && s.User(ctx) != ""
}

// TokenExpired inspects the stored token's exp claim without verifying the
// signature (the signing key is server-side). Opaque or claim-less tokens are
// reported as not expired; only a parseable exp in the past returns true.
func (s *Session) TokenExpired(ctx context.Context, now time.Time) bool {
	token := s.Token(ctx)
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

func (s *Session) get(ctx context.Context, key string) string {
	value, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.warn(ctx, "reading session key "+key, err)
		}
		return ""
	}
	return value
}

func (s *Session) set(ctx context.Context, key, value string) {
	if err := s.store.Set(ctx, key, value); err != nil {
		s.warn(ctx, "writing session key "+key, err)
	}
}

func (s *Session) warn(ctx context.Context, msg string, err error) {
	if s.logg == nil {
		return
	}
	s.logg.Error(ctx, "session store: "+msg, err)
}
