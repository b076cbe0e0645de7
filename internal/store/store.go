// Package store is the persisted key/value holder for the auth token and the
// user profile. It never fails loudly: backend errors are logged and reported
// as false or absent values.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/cache"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/config"
	"github.com/JohnEvansOkyere/vexaai-automation-website/internal/database"
)

const (
	KeyAuthToken = "auth_token"
	KeyUser      = "user"
)

const opTimeout = 3 * time.Second

type SessionStore struct {
	backend Backend
	log     zerolog.Logger
}

func New(backend Backend, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		backend: backend,
		log:     log.With().Str("component", "session_store").Logger(),
	}
}

// Open builds the store configured in cfg. When the durable backend cannot be
// reached the store falls back to process memory: the user can still sign in,
// the session just won't survive a restart.
func Open(ctx context.Context, cfg config.SessionConfig, log zerolog.Logger) *SessionStore {
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Str("backend", cfg.Backend).Msg("session storage unavailable, using memory")
		backend = NewMemoryBackend()
	}
	return New(backend, log)
}

func openBackend(ctx context.Context, cfg config.SessionConfig) (Backend, error) {
	switch cfg.Backend {
	case "redis":
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return NewRedisBackend(client, cfg.KeyPrefix), nil
	case "sqlite":
		db, err := database.NewSQLite(ctx, cfg.SQLitePath, SQLiteSchema)
		if err != nil {
			return nil, err
		}
		return NewSQLiteBackend(db), nil
	default:
		return NewMemoryBackend(), nil
	}
}

// Set stores strings verbatim and JSON-encodes everything else.
func (s *SessionStore) Set(key string, value any) bool {
	serialized, ok := value.(string)
	if !ok {
		raw, err := json.Marshal(value)
		if err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("storage set error")
			return false
		}
		serialized = string(raw)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.backend.Set(ctx, key, serialized); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("storage set error")
		return false
	}
	return true
}

// Get returns the raw stored string. Empty values count as absent.
func (s *SessionStore) Get(key string) (string, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	value, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Error().Err(err).Str("key", key).Msg("storage get error")
		}
		return "", false
	}
	if value == "" {
		return "", false
	}
	return value, true
}

// GetParsed decodes the stored JSON. A value that is not valid JSON comes back
// as the raw string; nil means absent.
func (s *SessionStore) GetParsed(key string) any {
	value, ok := s.Get(key)
	if !ok {
		return nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(value), &decoded); err != nil {
		return value
	}
	return decoded
}

func (s *SessionStore) Remove(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.backend.Delete(ctx, key); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("storage remove error")
		return false
	}
	return true
}

func (s *SessionStore) Clear() bool {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.backend.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("storage clear error")
		return false
	}
	return true
}

func (s *SessionStore) Close() error {
	return s.backend.Close()
}

func (s *SessionStore) SetAuthToken(token string) bool {
	return s.Set(KeyAuthToken, token)
}

func (s *SessionStore) AuthToken() (string, bool) {
	return s.Get(KeyAuthToken)
}

func (s *SessionStore) SetUser(user any) bool {
	return s.Set(KeyUser, user)
}

func (s *SessionStore) User() any {
	return s.GetParsed(KeyUser)
}

// ClearAuth removes both halves of the session. Both removals are attempted
// even when the first one fails.
func (s *SessionStore) ClearAuth() bool {
	tokenOK := s.Remove(KeyAuthToken)
	userOK := s.Remove(KeyUser)
	return tokenOK && userOK
}
