// Package users implements the user management operations and the request
// validation that guards user creation.
package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wuwenbin0122/user-console/internal/models"
	"github.com/wuwenbin0122/user-console/internal/store"
)

type Service struct {
	store  store.UserStore
	logger *zap.Logger
	newID  func() string
}

func NewService(userStore store.UserStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: userStore, logger: logger, newID: uuid.NewString}
}

// ListUsers returns every stored user in insertion order.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, s.storeFailure("list users", "", err)
	}
	return list, nil
}

// CreateUser assigns a fresh id and persists the payload. The payload is
// expected to have passed Validator.Validate.
func (s *Service) CreateUser(ctx context.Context, payload models.UserCreate) (models.User, error) {
	user := models.User{
		ID:       s.newID(),
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
		Image:    payload.Image,
	}

	if err := s.store.Create(ctx, user); err != nil {
		return models.User{}, s.storeFailure("create user", user.ID, err)
	}

	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// UpdateUserRole changes only the role of the user. Empty roles are stored as given.
func (s *Service) UpdateUserRole(ctx context.Context, id, role string) (models.User, error) {
	user, err := s.store.UpdateRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, s.storeFailure("update user role", id, err)
	}

	s.logger.Info("user role updated", zap.String("user_id", id), zap.String("role", role))
	return user, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return s.storeFailure("delete user", id, err)
	}

	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

func (s *Service) storeFailure(op, id string, err error) error {
	fields := []zap.Field{zap.String("op", op), zap.Error(err)}
	if id != "" {
		fields = append(fields, zap.String("user_id", id))
	}
	s.logger.Error("user store failure", fields...)
	return &StoreError{Op: op, Err: err}
}
