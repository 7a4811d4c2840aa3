package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Skotchmaster/shop_api/internal/hash"
	"github.com/Skotchmaster/shop_api/internal/logging"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/mykafka"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/tokens"
)

type UserStore interface {
	UserByName(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id uint) (*models.User, error)
	CreateUserIfNotExists(ctx context.Context, u *models.User) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, s *models.Session) error
	ActiveSession(ctx context.Context, id string) (*models.Session, error)
	RevokeSession(ctx context.Context, id string) error
}

// Identity is the authenticated user behind a request.
type Identity struct {
	UserID    uint
	SessionID string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  Identity
}

type AuthService struct {
	Users    UserStore
	Sessions SessionStore
	Events   *Events
	Secret   []byte
	TTL      time.Duration
	Now      func() time.Time
}

// unknown usernames still pay for one bcrypt comparison
var dummyHash = sync.OnceValue(func() string {
	h, _ := hash.HashPassword("no-such-user")
	return h
})

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Users.UserByName(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			hash.CheckPassword(dummyHash(), password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if password == "" || !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	exp := now.Add(s.TTL)
	jti := tokens.NewJTI()

	token, err := tokens.SignSession(user.ID, jti, now, exp, s.Secret)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}

	if err := s.Sessions.CreateSession(ctx, &models.Session{
		ID:        jti,
		UserID:    user.ID,
		TokenHash: tokens.Sha256Hex(token),
		ExpiresAt: exp.Unix(),
	}); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	l.Info("session_created", "user_id", user.ID)
	s.Events.emit(ctx, mykafka.TopicUserEvents, strconv.FormatUint(uint64(user.ID), 10), Event{
		Type:   "user_logged_in",
		UserID: user.ID,
	})

	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		Identity:  Identity{UserID: user.ID, SessionID: jti},
	}, nil
}

// Authenticate resolves a session token to the identity it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	claims, err := tokens.SessionClaimsFromToken(token, s.Secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}
	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	sess, err := s.Sessions.ActiveSession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if sess.UserID != userID {
		return nil, ErrNoSession
	}

	return &Identity{UserID: userID, SessionID: sess.ID}, nil
}

func (s *AuthService) Logout(ctx context.Context, id Identity) error {
	if err := s.Sessions.RevokeSession(ctx, id.SessionID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNoSession
		}
		return fmt.Errorf("revoke session: %w", err)
	}

	s.Events.emit(ctx, mykafka.TopicUserEvents, strconv.FormatUint(uint64(id.UserID), 10), Event{
		Type:   "user_logged_out",
		UserID: id.UserID,
	})
	return nil
}

// CreateUser provisions an account. There is no HTTP route for this.
func (s *AuthService) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is empty: %w", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("password is empty: %w", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Username: username, PasswordHash: pwHash}
	if err := s.Users.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, fmt.Errorf("user %q: %w", username, ErrConflict)
		}
		return nil, err
	}
	return user, nil
}
