package users

import (
	"context"
	"errors"
	"testing"

	"github.com/wuwenbin0122/user-console/internal/models"
	"github.com/wuwenbin0122/user-console/internal/store"
)

var errDiskOnFire = errors.New("disk on fire")

type brokenStore struct{}

func (brokenStore) List(context.Context) ([]models.User, error) { return nil, errDiskOnFire }
func (brokenStore) Create(context.Context, models.User) error   { return errDiskOnFire }
func (brokenStore) UpdateRole(context.Context, string, string) (models.User, error) {
	return models.User{}, errDiskOnFire
}
func (brokenStore) Delete(context.Context, string) error { return errDiskOnFire }

func newTestService(seed ...models.User) (*Service, *store.Memory) {
	mem := store.NewMemory(seed...)
	return NewService(mem, nil), mem
}

func TestCreateUserAssignsIDAndKeepsFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	payload := validPayload()

	first, err := svc.CreateUser(ctx, payload)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	second, err := svc.CreateUser(ctx, payload)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	if first.ID == "" || first.ID == second.ID {
		t.Fatalf("expected distinct non-empty ids, got %q and %q", first.ID, second.ID)
	}

	want := models.User{
		ID:       first.ID,
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
		Image:    payload.Image,
	}
	if first != want {
		t.Fatalf("expected %+v, got %+v", want, first)
	}

	list, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(list) != 2 || list[0].ID != first.ID || list[1].ID != second.ID {
		t.Fatalf("expected users in insertion order, got %+v", list)
	}
}

func TestUpdateUserRoleChangesOnlyRole(t *testing.T) {
	alice := models.User{ID: "u-1", Username: "alice", Email: "alice@example.com", Password: "pw", Role: "viewer", Image: "a.png"}
	svc, _ := newTestService(alice)
	ctx := context.Background()

	updated, err := svc.UpdateUserRole(ctx, "u-1", "admin")
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != "admin" {
		t.Fatalf("expected role admin, got %s", updated.Role)
	}

	list, _ := svc.ListUsers(ctx)
	want := alice
	want.Role = "admin"
	if len(list) != 1 || list[0] != want {
		t.Fatalf("expected %+v persisted, got %+v", want, list)
	}
}

func TestUpdateUserRoleAllowsEmptyRole(t *testing.T) {
	svc, _ := newTestService(models.User{ID: "u-1", Username: "alice", Role: "viewer"})

	updated, err := svc.UpdateUserRole(context.Background(), "u-1", "")
	if err != nil {
		t.Fatalf("update role: %v", err)
	}
	if updated.Role != "" {
		t.Fatalf("expected empty role stored, got %q", updated.Role)
	}
}

func TestUnknownIDIsNotFoundAndStoreUnchanged(t *testing.T) {
	alice := models.User{ID: "u-1", Username: "alice", Role: "viewer"}
	svc, _ := newTestService(alice)
	ctx := context.Background()

	if _, err := svc.UpdateUserRole(ctx, "nope", "admin"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
	if err := svc.DeleteUser(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}

	list, _ := svc.ListUsers(ctx)
	if len(list) != 1 || list[0] != alice {
		t.Fatalf("expected store unchanged, got %+v", list)
	}
}

func TestDeleteUserTwiceFails(t *testing.T) {
	svc, _ := newTestService(models.User{ID: "u-1", Username: "alice"})
	ctx := context.Background()

	if err := svc.DeleteUser(ctx, "u-1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := svc.DeleteUser(ctx, "u-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestStoreFailuresBecomeStoreError(t *testing.T) {
	svc := NewService(brokenStore{}, nil)
	ctx := context.Background()

	_, listErr := svc.ListUsers(ctx)
	_, createErr := svc.CreateUser(ctx, validPayload())
	_, updateErr := svc.UpdateUserRole(ctx, "u-1", "admin")
	deleteErr := svc.DeleteUser(ctx, "u-1")

	for name, err := range map[string]error{
		"list":   listErr,
		"create": createErr,
		"update": updateErr,
		"delete": deleteErr,
	} {
		var storeErr *StoreError
		if !errors.As(err, &storeErr) {
			t.Fatalf("%s: expected StoreError, got %v", name, err)
		}
		if !errors.Is(err, errDiskOnFire) {
			t.Fatalf("%s: expected cause preserved, got %v", name, err)
		}
	}
}
