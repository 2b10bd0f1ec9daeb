// Pinpoint - Decimal-Exact Area Hit-Check Service
// Copyright 2026 M. Zheludkov (mzheludkov)
// SPDX-License-Identifier: MIT
// https://github.com/mzheludkov/pinpoint

// Package users implements accounts and sessions on top of the store:
// register/login/logout/remove, per-login dot history with a
// write-through cache, and JWT session tokens revoked through the
// cache. Store access crosses a circuit breaker so a dead database
// degrades into 503s instead of hanging handlers.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/mzheludkov/pinpoint/internal/metrics"
	"github.com/mzheludkov/pinpoint/internal/models"
	"github.com/mzheludkov/pinpoint/internal/store"
)

var (
	// ErrInvalidCredentials covers unknown login and wrong password
	// alike, so responses do not leak which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists reports a register conflict.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound reports a remove of a missing account.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidToken covers bad signatures, expiry and revocation.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrStoreUnavailable reports an open breaker or a failing store.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Config tunes the service.
type Config struct {
	JWTSecret  string
	SessionTTL time.Duration
	BcryptCost int

	BreakerMaxFailures int
	BreakerOpenTimeout time.Duration
}

// Service binds the store, the writer and the session cache.
type Service struct {
	store    *store.Store
	writer   *store.Writer
	sessions *sessionCache
	breaker  *gobreaker.CircuitBreaker[any]
	log      zerolog.Logger

	secret     []byte
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
}

// New builds the service. writer may already be running under the
// supervisor; the service only enqueues into it.
func New(st *store.Store, writer *store.Writer, cfg Config, log zerolog.Logger) *Service {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.BcryptCost <= 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.BreakerMaxFailures <= 0 {
		cfg.BreakerMaxFailures = 5
	}
	if cfg.BreakerOpenTimeout <= 0 {
		cfg.BreakerOpenTimeout = 30 * time.Second
	}

	maxFailures := uint32(cfg.BreakerMaxFailures)
	settings := gobreaker.Settings{
		Name:    "store",
		Timeout: cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.RecordBreakerState(name, int(to))
		},
		IsSuccessful: func(err error) bool {
			// Domain outcomes are not store failures.
			return err == nil ||
				errors.Is(err, store.ErrNotFound) ||
				errors.Is(err, store.ErrLoginTaken)
		},
	}

	return &Service{
		store:      st,
		writer:     writer,
		sessions:   newSessionCache(),
		breaker:    gobreaker.NewCircuitBreaker[any](settings),
		log:        log.With().Str("component", "users").Logger(),
		secret:     []byte(cfg.JWTSecret),
		ttl:        cfg.SessionTTL,
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
	}
}

// guard runs op through the breaker, collapsing infrastructure
// failures into ErrStoreUnavailable while domain errors pass through.
func (s *Service) guard(op func() error) error {
	_, err := s.breaker.Execute(func() (any, error) { return nil, op() })
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrLoginTaken):
		return err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return ErrStoreUnavailable
	default:
		s.log.Error().Err(err).Msg("store call failed")
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

// Register creates the account and opens a session for it.
func (s *Service) Register(ctx context.Context, login, password string) (string, error) {
	if login == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	err = s.guard(func() error { return s.store.CreateUser(ctx, login, string(hash)) })
	if errors.Is(err, store.ErrLoginTaken) {
		return "", ErrUserExists
	}
	if err != nil {
		return "", err
	}

	s.sessions.setDots(login, nil)
	return s.openSession(login)
}

// Login checks the password, loads the dot history into the cache and
// opens a session.
func (s *Service) Login(ctx context.Context, login, password string) (string, error) {
	var storedHash string
	err := s.guard(func() error {
		h, err := s.store.PasswordHash(ctx, login)
		storedHash = h
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}

	if _, ok := s.sessions.getDots(login); !ok {
		var dots []models.Dot
		err := s.guard(func() error {
			d, err := s.store.DotsByLogin(ctx, login)
			dots = d
			return err
		})
		if err != nil {
			return "", err
		}
		s.sessions.setDots(login, dots)
	}

	return s.openSession(login)
}

func (s *Service) openSession(login string) (string, error) {
	token, err := s.mintToken(login, s.now())
	if err != nil {
		return "", fmt.Errorf("mint token: %w", err)
	}
	s.sessions.put(token, login)
	return token, nil
}

// Logout revokes one token. Unknown tokens report ErrInvalidToken.
func (s *Service) Logout(token string) error {
	if !s.sessions.remove(token) {
		return ErrInvalidToken
	}
	return nil
}

// LoginFromToken resolves a bearer token to its login. Both the
// signature and a live session are required.
func (s *Service) LoginFromToken(token string) (string, error) {
	login, err := s.verifyToken(token)
	if err != nil {
		return "", err
	}
	cached, ok := s.sessions.login(token)
	if !ok || cached != login {
		return "", ErrInvalidToken
	}
	return login, nil
}

// RemoveUser deletes the account behind the token, its history and
// every open session.
func (s *Service) RemoveUser(ctx context.Context, token string) error {
	login, err := s.LoginFromToken(token)
	if err != nil {
		return err
	}
	err = s.guard(func() error { return s.store.DeleteUser(ctx, login) })
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	s.sessions.purgeUser(login)
	return nil
}

// AddDot records a checked dot: into the cache now, into the store
// asynchronously. A full writer queue only loses persistence, not the
// session view.
func (s *Service) AddDot(login string, d models.Dot) {
	s.sessions.addDot(login, d)
	if !s.writer.EnqueueInsert(models.StoreTask{Login: login, Dot: d}) {
		s.log.Warn().Str("login", login).Msg("writer queue full, dot not persisted")
	}
}

// ClearDots empties the history synchronously in both cache and store.
func (s *Service) ClearDots(ctx context.Context, login string) error {
	if err := s.guard(func() error { return s.store.ClearDots(ctx, login) }); err != nil {
		return err
	}
	s.sessions.clearDots(login)
	return nil
}

// Dots returns the login's history, serving from the cache and falling
// back to the store on a cold start.
func (s *Service) Dots(ctx context.Context, login string) ([]models.Dot, error) {
	if dots, ok := s.sessions.getDots(login); ok {
		return dots, nil
	}
	var dots []models.Dot
	err := s.guard(func() error {
		d, err := s.store.DotsByLogin(ctx, login)
		dots = d
		return err
	})
	if err != nil {
		return nil, err
	}
	s.sessions.setDots(login, dots)
	return dots, nil
}
