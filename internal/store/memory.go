package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/wuwenbin0122/user-console/internal/models"
)

// Memory keeps users in process memory. It is the default backend and the one
// used by tests.
type Memory struct {
	mu    sync.RWMutex
	users []models.User
	index map[string]int
}

func NewMemory(seed ...models.User) *Memory {
	m := &Memory{
		users: make([]models.User, 0, len(seed)),
		index: make(map[string]int, len(seed)),
	}
	for _, u := range seed {
		m.index[u.ID] = len(m.users)
		m.users = append(m.users, u)
	}
	return m
}

func (m *Memory) List(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.User, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *Memory) Create(ctx context.Context, user models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.index[user.ID]; exists {
		return fmt.Errorf("store: duplicate id %q", user.ID)
	}

	m.index[user.ID] = len(m.users)
	m.users = append(m.users, user)
	return nil
}

func (m *Memory) UpdateRole(ctx context.Context, id, role string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.index[id]
	if !ok {
		return models.User{}, ErrNotFound
	}

	m.users[pos].Role = role
	return m.users[pos], nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.index[id]
	if !ok {
		return ErrNotFound
	}

	m.users = append(m.users[:pos], m.users[pos+1:]...)
	delete(m.index, id)
	for i := pos; i < len(m.users); i++ {
		m.index[m.users[i].ID] = i
	}
	return nil
}
