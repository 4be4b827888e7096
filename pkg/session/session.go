package session

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
)

var ErrNoToken = errors.New("no access token, please login again")

// TokenSource provides the access token of a new session.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type TokenSourceFunc func(ctx context.Context) (string, error)

func (f TokenSourceFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}

// StaticToken is a source always returning the same token.
func StaticToken(token string) TokenSource {
	return TokenSourceFunc(func(ctx context.Context) (string, error) {
		return token, nil
	})
}

// FileToken reads the token from a file every time a session is acquired, so
// a new login can replace an invalidated token.
func FileToken(path string) TokenSource {
	return TokenSourceFunc(func(ctx context.Context) (string, error) {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	})
}

// Session holds the access token used by the dashboard calls. The token is
// acquired lazily from the source and dropped by Invalidate, the next call
// acquires it again.
type Session struct {
	mutex  sync.Mutex
	source TokenSource
	token  string

	invalidated bool
}

func New(source TokenSource) *Session {
	return &Session{source: source}
}

func (s *Session) Acquire(ctx context.Context) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.token != "" {
		return s.token, nil
	}

	token, err := s.source.Token(ctx)
	if err != nil {
		return "", err
	}

	if token == "" {
		return "", ErrNoToken
	}

	s.token = token
	s.invalidated = false
	return token, nil
}

func (s *Session) Invalidate() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.token = ""
	s.invalidated = true
}

// Invalidated reports whether the last acquired token was rejected.
func (s *Session) Invalidated() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.invalidated
}
