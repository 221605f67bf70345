package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"backoffice/internal/cache"
	c "backoffice/internal/configuration"
	"backoffice/internal/models"
)

// IStore is the durable credential storage. It survives restarts.
type IStore interface {
	Load(ctx context.Context) (models.Session, error)
	Save(ctx context.Context, session models.Session) error
	Clear(ctx context.Context) error
}

// FileStore keeps the session as one JSON document readable only by the owner.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(_ context.Context) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.Session{}, nil
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("read session file: %w", err)
	}

	var session models.Session
	if err = json.Unmarshal(data, &session); err != nil {
		return models.Session{}, fmt.Errorf("decode session file: %w", err)
	}
	return session, nil
}

func (s *FileStore) Save(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// CacheStore keeps the session under the token and admin keys of a cache.
type CacheStore struct {
	cache cache.ICache
}

func NewCacheStore(kv cache.ICache) *CacheStore {
	return &CacheStore{cache: kv}
}

func (s *CacheStore) Load(ctx context.Context) (models.Session, error) {
	token, ok, err := s.cache.Get(ctx, c.StoreTokenKey)
	if err != nil {
		return models.Session{}, fmt.Errorf("load token: %w", err)
	}
	if !ok {
		return models.Session{}, nil
	}

	admin, _, err := s.cache.Get(ctx, c.StoreAdminKey)
	if err != nil {
		return models.Session{}, fmt.Errorf("load admin flag: %w", err)
	}
	isAdmin, _ := strconv.ParseBool(admin)

	return models.Session{Token: token, IsAdmin: isAdmin}, nil
}

func (s *CacheStore) Save(ctx context.Context, session models.Session) error {
	if err := s.cache.Set(ctx, c.StoreTokenKey, session.Token, 0); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := s.cache.Set(ctx, c.StoreAdminKey, strconv.FormatBool(session.IsAdmin), 0); err != nil {
		return fmt.Errorf("save admin flag: %w", err)
	}
	return nil
}

func (s *CacheStore) Clear(ctx context.Context) error {
	return s.cache.Delete(ctx, c.StoreTokenKey, c.StoreAdminKey)
}
