package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

const minPasswordLength = 8

// authenticator registers users and turns credentials into sessions
type authenticator struct {
	users    UserStore
	sessions SessionStore
	ttl      time.Duration
	cost     int
}

func newAuthenticator(users UserStore, sessions SessionStore, ttl time.Duration) *authenticator {
	return &authenticator{
		users:    users,
		sessions: sessions,
		ttl:      ttl,
		cost:     bcrypt.DefaultCost,
	}
}

func (a *authenticator) Register(ctx context.Context, email, password string) (string, Session, error) {
	if len(password) < minPasswordLength {
		return "", Session{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return "", Session{}, fmt.Errorf("failed to hash password: %w", err)
	}
	user, err := a.users.CreateUser(ctx, email, hash)
	if err != nil {
		return "", Session{}, err
	}
	return a.start(ctx, user)
}

func (a *authenticator) Login(ctx context.Context, email, password string) (string, Session, error) {
	user, err := a.users.UserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return "", Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", Session{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", Session{}, ErrInvalidCredentials
	}
	return a.start(ctx, user)
}

func (a *authenticator) Logout(ctx context.Context, token string) error {
	return a.sessions.Delete(ctx, token)
}

func (a *authenticator) start(ctx context.Context, user User) (string, Session, error) {
	sess := Session{UserID: user.ID, Email: user.Email}
	token, err := a.sessions.Create(ctx, sess, a.ttl)
	if err != nil {
		return "", Session{}, err
	}
	return token, sess, nil
}
