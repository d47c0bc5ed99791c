package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/wuwenbin0122/user-console/internal/models"
)

var ErrSessionNotInitialised = errors.New("dashboard: session not initialised")

// SessionStorage persists session values for the operator between runs.
// Clear removes every value, not only known keys.
type SessionStorage interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context) error
}

// Session is the operator's session context. Init reads the stored identity
// once; Teardown wipes the storage.
type Session struct {
	storage SessionStorage
	key     string

	mu          sync.RWMutex
	initialised bool
	user        *models.User
}

func NewSession(storage SessionStorage, key string) *Session {
	if key == "" {
		key = "user"
	}
	return &Session{storage: storage, key: key}
}

// Init loads the persisted operator. A missing entry leaves the session anonymous.
// Calling Init again is a no-op.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialised {
		return nil
	}

	raw, ok, err := s.storage.Load(ctx, s.key)
	if err != nil {
		return fmt.Errorf("dashboard: load session: %w", err)
	}

	if ok {
		var user models.User
		if err := json.Unmarshal(raw, &user); err != nil {
			return fmt.Errorf("dashboard: decode session user: %w", err)
		}
		s.user = &user
	}

	s.initialised = true
	return nil
}

// Remember stores user as the current operator, without its password.
func (s *Session) Remember(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialised {
		return ErrSessionNotInitialised
	}

	user = user.Sanitize()
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("dashboard: encode session user: %w", err)
	}
	if err := s.storage.Save(ctx, s.key, raw); err != nil {
		return fmt.Errorf("dashboard: save session: %w", err)
	}

	s.user = &user
	return nil
}

// User returns the operator read by Init, if any.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// Teardown clears the in-memory identity and all persisted session data.
// It is safe to call more than once.
func (s *Session) Teardown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.initialised = false

	if err := s.storage.Clear(ctx); err != nil {
		return fmt.Errorf("dashboard: clear session: %w", err)
	}
	return nil
}

// MemorySessionStorage keeps session values in process memory.
type MemorySessionStorage struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemorySessionStorage() *MemorySessionStorage {
	return &MemorySessionStorage{values: make(map[string][]byte)}
}

func (m *MemorySessionStorage) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemorySessionStorage) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemorySessionStorage) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = make(map[string][]byte)
	return nil
}
