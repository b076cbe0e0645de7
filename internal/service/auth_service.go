package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/config"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/models"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/repository"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrSessionExpired     = errors.New("session expired")
)

type AuthService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	hasher   *security.PasswordHasher
	cfg      config.StubConfig
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(
	users *repository.UserRepository,
	sessions *repository.SessionRepository,
	hasher *security.PasswordHasher,
	cfg config.StubConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		cfg:      cfg,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates the account. Like the production backend it does not
// sign the user in; the client logs in afterwards.
func (s *AuthService) Register(ctx context.Context, input models.Registration) (models.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return models.User{}, err
	}

	now := s.now()
	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		IsAdmin:      s.isAdminEmail(email),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

func (s *AuthService) isAdminEmail(email string) bool {
	for _, admin := range s.cfg.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), email) {
			return true
		}
	}
	return false
}

type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
	UserAgent string
}

type AuthResult struct {
	Token string
	User  models.User
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(input.Email)))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	ok, err := s.hasher.Verify(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return AuthResult{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return AuthResult{}, ErrUserInactive
	}

	now := s.now()
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.TokenTTL),
	}

	token, err := security.IssueAccessToken(s.cfg.JWTSecret, user, session.ID, s.cfg.TokenTTL, now)
	if err != nil {
		return AuthResult{}, err
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, fmt.Errorf("create session: %w", err)
	}

	return AuthResult{Token: token, User: user}, nil
}

// Authenticate resolves a bearer token to its user and session id.
func (s *AuthService) Authenticate(ctx context.Context, token string) (models.User, string, error) {
	claims, err := security.ParseAccessToken(token, s.cfg.JWTSecret)
	if err != nil {
		return models.User{}, "", err
	}

	session, err := s.sessions.GetByID(ctx, claims.ID)
	if err != nil {
		return models.User{}, "", err
	}
	if session.UserID != claims.UserID {
		return models.User{}, "", security.ErrInvalidToken
	}
	if !s.now().Before(session.ExpiresAt) {
		return models.User{}, "", ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return models.User{}, "", err
	}
	if !user.IsActive {
		return models.User{}, "", ErrUserInactive
	}
	return user, session.ID, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.DeleteByID(ctx, sessionID)
}

// PurgeExpiredSessions is run by the scheduler.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) error {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		s.log.Info().Int64("count", n).Msg("expired sessions purged")
	}
	return nil
}
