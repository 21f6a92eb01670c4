// Package session keeps the operator's identity and bearer token, persisted across restarts.
package session

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
	"github.com/lgoenaga/front-gea-cesde-sub000/core/user"
)

// Storage keys.
const (
	TokenKey           = "token"
	UserKey            = "user"
	TokenExpirationKey = "tokenExpiration" // epoch ms, 0 when unknown
)

var ErrNotFound = errors.New("session key not found")

// Storage persists string values. Set writes all values or none.
type Storage interface {
	Get(key string) (string, error)
	Set(values map[string]string) error
	Delete(keys ...string) error
}

type Session struct {
	storage Storage
	logger  core.Logger

	mu        sync.RWMutex
	token     string
	user      user.User
	expiresAt time.Time
}

func New(storage Storage, logger core.Logger) (*Session, error) {
	if err := vala.BeginValidation().Validate(
		vala.IsNotNil(storage, "storage"),
		vala.IsNotNil(logger, "logger"),
	).Check(); err != nil {
		return nil, errors.Wrap(err, "session.New")
	}
	return &Session{storage: storage, logger: logger}, nil
}

// Restore reloads a persisted session. A missing or expired one leaves the session anonymous.
func (s *Session) Restore() error {
	token, err := s.storage.Get(TokenKey)
	if err == ErrNotFound || (err == nil && token == "") {
		return nil
	}
	if err != nil {
		s.logger.Warn("discarding unreadable session token", err)
		return s.Clear()
	}

	var usr user.User
	rawUsr, err := s.storage.Get(UserKey)
	if err != nil && err != ErrNotFound {
		return errors.Wrap(err, "reading user")
	}
	if rawUsr != "" {
		if err = json.Unmarshal([]byte(rawUsr), &usr); err != nil {
			s.logger.Warn("discarding unreadable session user", err)
			return s.Clear()
		}
	}

	var expiresAt time.Time
	rawExp, err := s.storage.Get(TokenExpirationKey)
	if err != nil && err != ErrNotFound {
		return errors.Wrap(err, "reading token expiration")
	}
	if ms, _ := strconv.ParseInt(rawExp, 10, 64); ms > 0 {
		expiresAt = time.Unix(0, ms*int64(time.Millisecond))
	}
	if !expiresAt.IsZero() && !core.NowFunc().Before(expiresAt) {
		s.logger.Info("stored session expired", map[string]interface{}{"expiredAt": expiresAt})
		return s.Clear()
	}

	s.mu.Lock()
	s.token, s.user, s.expiresAt = token, usr, expiresAt
	s.mu.Unlock()
	return nil
}

// Start records a fresh login. A zero expiresAt is derived from the token's exp claim.
func (s *Session) Start(token string, usr user.User, expiresAt time.Time) error {
	if token == "" {
		return errors.New("session: empty token")
	}
	if expiresAt.IsZero() {
		expiresAt = TokenExpiry(token)
	}
	rawUsr, err := json.Marshal(usr)
	if err != nil {
		return errors.Wrap(err, "encoding user")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err = s.storage.Set(map[string]string{
		TokenKey:           token,
		UserKey:            string(rawUsr),
		TokenExpirationKey: formatExpiration(expiresAt),
	}); err != nil {
		return errors.Wrap(err, "persisting session")
	}
	s.token, s.user, s.expiresAt = token, usr, expiresAt
	return nil
}

// SetToken replaces the token after a refresh, keeping the identity.
func (s *Session) SetToken(token string) error {
	expiresAt := TokenExpiry(token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Set(map[string]string{
		TokenKey:           token,
		TokenExpirationKey: formatExpiration(expiresAt),
	}); err != nil {
		return errors.Wrap(err, "persisting token")
	}
	s.token, s.expiresAt = token, expiresAt
	return nil
}

// Clear forgets the identity and its persisted keys.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token, s.user, s.expiresAt = "", user.User{}, time.Time{}
	return errors.Wrap(s.storage.Delete(TokenKey, UserKey, TokenExpirationKey), "clearing session")
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// User returns the operator; ok is false for an anonymous session.
func (s *Session) User() (usr user.User, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.token != ""
}

func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

func (s *Session) HasRole(role user.RoleName) bool {
	return s.Satisfies(user.RequiresAnyOf(role))
}

func (s *Session) HasAnyRole(roles ...user.RoleName) bool {
	return s.Satisfies(user.RequiresAnyOf(roles...))
}

// Satisfies reports whether the operator is authenticated and meets req.
func (s *Session) Satisfies(req user.Requirement) bool {
	usr, ok := s.User()
	return ok && req.SatisfiedBy(usr.Roles)
}

// TokenExpiry reads the exp claim without verifying the signature; zero when absent.
func TokenExpiry(token string) time.Time {
	var claims jwt.StandardClaims
	if _, _, err := new(jwt.Parser).ParseUnverified(token, &claims); err != nil || claims.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(claims.ExpiresAt, 0)
}

func formatExpiration(t time.Time) string {
	if t.IsZero() {
		return "0"
	}
	return strconv.FormatInt(t.UnixNano()/int64(time.Millisecond), 10)
}
