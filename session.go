package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

const (
	sessionCookie     = "session"
	sessionContextKey = "session"
)

// Session is the signed-in user, or the zero value when nobody is signed in
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Active reports whether the session belongs to a user
func (s Session) Active() bool {
	return s.UserID != ""
}

// SessionStore maps opaque tokens to sessions
type SessionStore interface {
	Create(ctx context.Context, sess Session, ttl time.Duration) (string, error)
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

type redisSessionStore struct {
	client *redis.Client
}

func newRedisSessionStore(client *redis.Client) *redisSessionStore {
	return &redisSessionStore{client: client}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *redisSessionStore) Create(ctx context.Context, sess Session, ttl time.Duration) (string, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return "", fmt.Errorf("failed to encode session: %w", err)
	}
	token := uuid.NewString()
	if err := s.client.SetEx(ctx, sessionKey(token), data, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

func (s *redisSessionStore) Get(ctx context.Context, token string) (Session, error) {
	data, err := s.client.Get(ctx, sessionKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}, fmt.Errorf("failed to decode session: %w", err)
	}
	return sess, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, sessionKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// memorySessionStore is used when Redis is unreachable. Sessions do not
// survive a restart and are not shared between instances.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

type memorySession struct {
	session Session
	expires time.Time
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (s *memorySessionStore) Create(_ context.Context, sess Session, ttl time.Duration) (string, error) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	s.sessions[token] = memorySession{session: sess, expires: now.Add(ttl)}
	return token, nil
}

// sweep drops expired sessions. Callers hold mu.
func (s *memorySessionStore) sweep(now time.Time) {
	for token, entry := range s.sessions {
		if !now.Before(entry.expires) {
			delete(s.sessions, token)
		}
	}
}

func (s *memorySessionStore) Get(_ context.Context, token string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if !s.now().Before(entry.expires) {
		delete(s.sessions, token)
		return Session{}, ErrSessionNotFound
	}
	return entry.session, nil
}

func (s *memorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

// loadSession resolves the session cookie and stores the result on the
// request. A missing or stale cookie yields the zero Session.
func (s *Server) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess Session
		if token, err := c.Cookie(sessionCookie); err == nil && token != "" {
			ctx, cancel := s.storeContext(c)
			found, err := s.sessions.Get(ctx, token)
			cancel()
			switch {
			case err == nil:
				sess = found
			case errors.Is(err, ErrSessionNotFound):
				s.clearSessionCookie(c)
			default:
				s.logger.Warn().Err(err).Msg("session lookup failed")
			}
		}
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// sessionFrom returns the session loadSession attached to the request
func sessionFrom(c *gin.Context) Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if sess, ok := v.(Session); ok {
			return sess
		}
	}
	return Session{}
}

func (s *Server) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(s.cfg.SessionTTL.Seconds()), "/", "", s.cfg.CookieSecure, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", s.cfg.CookieSecure, true)
}
