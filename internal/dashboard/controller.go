// Package dashboard holds the operator-side state of the user management
// console: the fetched user list, the search projection over it and the
// single in-progress role edit.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/wuwenbin0122/user-console/internal/models"
)

var (
	ErrNotVisible = errors.New("dashboard: user is not in the displayed list")
	ErrNotEditing = errors.New("dashboard: no edit in progress")
	ErrSuperseded = errors.New("dashboard: request superseded by a newer one")
)

const (
	deletePrompt   = "Are you sure? You won't be able to revert this!"
	updatedMessage = "User updated successfully"
	deletedMessage = "User deleted successfully"
)

// Gateway is the remote user API as seen by the controller.
type Gateway interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id, role string) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

type Notifier interface {
	Notify(message string)
}

type Navigator interface {
	Navigate(path string)
}

// UI bundles the collaborators the controller needs from its front end.
type UI interface {
	Confirmer
	Notifier
	Navigator
}

type task struct {
	gen    uint64
	cancel context.CancelFunc
}

// Controller is the dashboard state machine. allUsers is the only stored list;
// Users always recomputes the displayed view from it.
type Controller struct {
	gateway Gateway
	session *Session
	ui      UI
	logger  *zap.Logger

	mu         sync.Mutex
	allUsers   []models.User
	search     string
	editingID  string
	editedRole string
	loading    bool
	tasks      map[string]task
	nextGen    uint64
}

func NewController(gateway Gateway, session *Session, ui UI, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		gateway: gateway,
		session: session,
		ui:      ui,
		logger:  logger,
		loading: true,
		tasks:   make(map[string]task),
	}
}

// Load fetches the full user list. On failure the controller stays loading.
func (c *Controller) Load(ctx context.Context) error {
	list, err := c.gateway.ListUsers(ctx)
	if err != nil {
		c.logger.Error("failed to fetch users", zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.allUsers = append([]models.User(nil), list...)
	c.loading = false
	c.dropHiddenDraftLocked()
	c.mu.Unlock()
	return nil
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Operator returns the identity held by the session, if any.
func (c *Controller) Operator() (models.User, bool) {
	return c.session.User()
}

// Users returns the displayed list: allUsers filtered by the search term.
func (c *Controller) Users() []models.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Filter(c.allUsers, c.search)
}

func (c *Controller) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Search replaces the search term. A draft whose row is filtered out is dropped.
func (c *Controller) Search(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.search = term
	c.dropHiddenDraftLocked()
}

// Editing reports the current draft, if one exists.
func (c *Controller) Editing() (id, role string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editingID, c.editedRole, c.editingID != ""
}

// BeginEdit starts a role edit on a displayed row, seeding the draft with the
// row's current role. Any other unsaved draft is discarded.
func (c *Controller) BeginEdit(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.visibleLocked(id)
	if !ok {
		return ErrNotVisible
	}

	c.editingID = id
	c.editedRole = user.Role
	return nil
}

func (c *Controller) SetDraftRole(role string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.editingID == "" {
		return ErrNotEditing
	}
	c.editedRole = role
	return nil
}

// CancelEdit abandons the draft without contacting the server.
func (c *Controller) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearDraftLocked()
}

// ConfirmEdit sends the draft role to the server. On success the role is
// written into allUsers and the draft is cleared; on failure nothing changes.
func (c *Controller) ConfirmEdit(ctx context.Context) error {
	c.mu.Lock()
	if c.editingID == "" {
		c.mu.Unlock()
		return ErrNotEditing
	}
	id, role := c.editingID, c.editedRole
	taskCtx, gen := c.startTaskLocked(ctx, id)
	c.mu.Unlock()

	updated, err := c.gateway.UpdateUserRole(taskCtx, id, role)

	c.mu.Lock()
	if !c.finishTaskLocked(id, gen) {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded role update", zap.String("user_id", id))
		return ErrSuperseded
	}
	if err != nil {
		c.mu.Unlock()
		c.logger.Error("failed to update user", zap.String("user_id", id), zap.Error(err))
		return err
	}

	if updated.ID == id {
		role = updated.Role
	}
	for i := range c.allUsers {
		if c.allUsers[i].ID == id {
			c.allUsers[i].Role = role
			break
		}
	}
	if c.editingID == id {
		c.clearDraftLocked()
	}
	c.mu.Unlock()

	c.ui.Notify(updatedMessage)
	return nil
}

// Delete asks for confirmation and, only when granted, deletes the user
// remotely and then from allUsers. It reports whether a deletion happened.
func (c *Controller) Delete(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	_, ok := c.visibleLocked(id)
	c.mu.Unlock()
	if !ok {
		return false, ErrNotVisible
	}

	confirmed, err := c.ui.Confirm(ctx, deletePrompt)
	if err != nil {
		return false, err
	}
	if !confirmed {
		return false, nil
	}

	c.mu.Lock()
	taskCtx, gen := c.startTaskLocked(ctx, id)
	c.mu.Unlock()

	err = c.gateway.DeleteUser(taskCtx, id)

	c.mu.Lock()
	if !c.finishTaskLocked(id, gen) {
		c.mu.Unlock()
		c.logger.Debug("discarding superseded delete", zap.String("user_id", id))
		return false, ErrSuperseded
	}
	if err != nil {
		c.mu.Unlock()
		c.logger.Error("failed to delete user", zap.String("user_id", id), zap.Error(err))
		return false, err
	}

	for i := range c.allUsers {
		if c.allUsers[i].ID == id {
			c.allUsers = append(c.allUsers[:i], c.allUsers[i+1:]...)
			break
		}
	}
	if c.editingID == id {
		c.clearDraftLocked()
	}
	c.mu.Unlock()

	c.ui.Notify(deletedMessage)
	return true, nil
}

// Logout cancels in-flight requests, empties every list, tears the session
// down and navigates to the landing page. Repeated calls are harmless.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	for id, t := range c.tasks {
		t.cancel()
		delete(c.tasks, id)
	}
	c.allUsers = nil
	c.search = ""
	c.clearDraftLocked()
	c.mu.Unlock()

	err := c.session.Teardown(ctx)
	if err != nil {
		c.logger.Error("failed to clear session", zap.Error(err))
	}

	c.ui.Navigate("/")
	return err
}

// startTaskLocked registers a request for id, cancelling any request still in
// flight for the same id.
func (c *Controller) startTaskLocked(ctx context.Context, id string) (context.Context, uint64) {
	if prev, ok := c.tasks[id]; ok {
		prev.cancel()
	}

	taskCtx, cancel := context.WithCancel(ctx)
	c.nextGen++
	c.tasks[id] = task{gen: c.nextGen, cancel: cancel}
	return taskCtx, c.nextGen
}

// finishTaskLocked reports whether gen is still the current request for id.
func (c *Controller) finishTaskLocked(id string, gen uint64) bool {
	t, ok := c.tasks[id]
	if !ok || t.gen != gen {
		return false
	}
	t.cancel()
	delete(c.tasks, id)
	return true
}

func (c *Controller) visibleLocked(id string) (models.User, bool) {
	for _, u := range Filter(c.allUsers, c.search) {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (c *Controller) dropHiddenDraftLocked() {
	if c.editingID == "" {
		return
	}
	if _, ok := c.visibleLocked(c.editingID); !ok {
		c.clearDraftLocked()
	}
}

func (c *Controller) clearDraftLocked() {
	c.editingID = ""
	c.editedRole = ""
}
