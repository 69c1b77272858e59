// Package auth is the identity store: it decides whether a chat user may use
// the bot and handles signup-code registration.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"meteobot/internal/models"
	"meteobot/internal/store"
)

var (
	// ErrUnauthorized indicates the user has no active registration.
	ErrUnauthorized = errors.New("user not authorized")
	// ErrInvalidSignupCode indicates a registration attempt with the wrong code.
	ErrInvalidSignupCode = errors.New("invalid signup code")
	// ErrAlreadyRegistered indicates the user already holds a registration.
	ErrAlreadyRegistered = errors.New("user already registered")
)

// Service authorizes users against the store, with a process-wide best-effort
// cache of known-good identities so repeat checks skip the database. The
// cache only ever holds positive results.
type Service struct {
	store      *store.Store
	signupCode string

	mu    sync.Mutex
	known map[int64]*models.User
}

func NewService(st *store.Store, signupCode string) *Service {
	return &Service{
		store:      st,
		signupCode: signupCode,
		known:      make(map[int64]*models.User),
	}
}

// Authorized returns the user's record when they hold an active registration,
// or ErrUnauthorized.
func (s *Service) Authorized(telegramID int64) (*models.User, error) {
	s.mu.Lock()
	cached, ok := s.known[telegramID]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	user, err := s.store.UserByTelegramID(telegramID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, ErrUnauthorized
	}

	s.mu.Lock()
	s.known[telegramID] = user
	s.mu.Unlock()
	return user, nil
}

// Register creates a user after validating the signup code and returns the
// one-time credential. Only the credential's SHA-256 hash is persisted.
func (s *Service) Register(telegramID int64, code string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(code), []byte(s.signupCode)) != 1 {
		return "", ErrInvalidSignupCode
	}

	existing, err := s.store.UserByTelegramID(telegramID)
	if err != nil {
		return "", fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return "", ErrAlreadyRegistered
	}

	credential := uuid.NewString()
	user, err := s.store.CreateUser(telegramID, hashToken(credential))
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}

	s.mu.Lock()
	s.known[telegramID] = &user
	s.mu.Unlock()
	return credential, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
