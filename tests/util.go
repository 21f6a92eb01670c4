package testutil

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
)

// Logger is a core.Logger that keeps messages in memory.
type Logger struct {
	mu       sync.Mutex
	Messages []string
}

func (l *Logger) log(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, level+": "+msg)
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg) }

// Errors returns the messages logged at error level.
func (l *Logger) Errors() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var errs []string
	for _, m := range l.Messages {
		if strings.HasPrefix(m, "ERROR: ") {
			errs = append(errs, strings.TrimPrefix(m, "ERROR: "))
		}
	}
	return errs
}

// Token signs a JWT for subject expiring at exp.
func Token(t *testing.T, subject string, exp time.Time) string {
	t.Helper()
	claims := jwt.StandardClaims{Subject: subject, ExpiresAt: exp.Unix(), IssuedAt: time.Now().Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return token
}

// MemTokens is a bare api.TokenStore.
type MemTokens struct {
	mu      sync.Mutex
	token   string
	Cleared int
}

func NewMemTokens(token string) *MemTokens {
	return &MemTokens{token: token}
}

func (m *MemTokens) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *MemTokens) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemTokens) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.Cleared++
	return nil
}
