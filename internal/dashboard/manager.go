package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/questx-lab/reactrole/internal/client"
	"github.com/questx-lab/reactrole/pkg/errorx"
	"github.com/questx-lab/reactrole/pkg/logger"
)

var (
	ErrModalOpen      = errors.New("another reaction role is being edited")
	ErrNoModal        = errors.New("no reaction role is being edited")
	ErrSubmitInFlight = errors.New("the reaction role is being saved")
	ErrInvalidIndex   = errors.New("invalid reaction role index")
)

// Notifier shows the transient messages of the dashboard.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Manager drives the reaction role page of one guild. Only one form is open at
// a time. Errors of the remote calls are reported to the notifier and are not
// returned, except UnauthorizedError.
type Manager struct {
	mutex sync.Mutex

	caller   client.ReactionRoleCaller
	notifier Notifier
	logger   logger.Logger
	guildID  string

	groups  []Group
	form    *Form
	editing Group
	picker  *EmojiPicker

	saving bool

	// idempotencyKey is reused by the retries of a create until one succeeds.
	idempotencyKey string
}

func NewManager(
	caller client.ReactionRoleCaller,
	guildID string,
	notifier Notifier,
	logger logger.Logger,
) *Manager {
	return &Manager{
		caller:   caller,
		notifier: notifier,
		logger:   logger,
		guildID:  guildID,
		groups:   []Group{},
		picker:   NewEmojiPicker(caller, guildID),
	}
}

func (m *Manager) Groups() []Group {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	groups := make([]Group, len(m.groups))
	for i, g := range m.groups {
		groups[i] = Group{copyGroup(g.ReactionRoleGroup)}
	}

	return groups
}

func (m *Manager) Form() *Form {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.form
}

func (m *Manager) Picker() *EmojiPicker {
	return m.picker
}

func (m *Manager) Saving() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.saving
}

// Load replaces the table with the groups of the guild. The table is empty if
// the list cannot be loaded.
func (m *Manager) Load(ctx context.Context) error {
	rows, err := m.caller.List(ctx, m.guildID)
	if ctx.Err() != nil {
		return nil
	}

	if err != nil {
		m.mutex.Lock()
		m.groups = []Group{}
		m.mutex.Unlock()
		return m.report(err)
	}

	groups := Project(rows)
	m.mutex.Lock()
	m.groups = groups
	m.mutex.Unlock()
	return nil
}

func (m *Manager) OpenCreate(ctx context.Context) (*Form, error) {
	form, err := m.open(nil)
	if err != nil {
		return nil, err
	}

	return form, m.loadEmojis(ctx)
}

func (m *Manager) OpenEdit(ctx context.Context, index int) (*Form, error) {
	m.mutex.Lock()
	if index < 0 || index >= len(m.groups) {
		m.mutex.Unlock()
		return nil, ErrInvalidIndex
	}
	group := m.groups[index]
	m.mutex.Unlock()

	form, err := m.open(&group)
	if err != nil {
		return nil, err
	}

	return form, m.loadEmojis(ctx)
}

// open returns the form it opened, m.form may be closed or replaced as soon as
// the mutex is released.
func (m *Manager) open(group *Group) (*Form, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.form != nil {
		return nil, ErrModalOpen
	}

	form := NewForm()
	if group != nil {
		m.editing = Group{copyGroup(group.ReactionRoleGroup)}
		form.StartEdit(group.ReactionRoleGroup)
	} else {
		m.editing = Group{}
	}
	m.form = form

	return form, nil
}

func (m *Manager) loadEmojis(ctx context.Context) error {
	err := m.picker.Load(ctx)
	if err == nil || ctx.Err() != nil {
		return nil
	}

	return m.report(err)
}

// Close discards the form. A running submit keeps the form until it returns.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.saving {
		return ErrSubmitInFlight
	}

	m.picker.Close()
	m.form = nil
	m.idempotencyKey = ""
	return nil
}

// Submit validates the form and saves it. The form is closed and the table
// reloaded on success. A second submit is rejected while one is running.
func (m *Manager) Submit(ctx context.Context) error {
	m.mutex.Lock()
	if m.form == nil {
		m.mutex.Unlock()
		return ErrNoModal
	}

	if m.saving {
		m.mutex.Unlock()
		return ErrSubmitInFlight
	}

	if err := m.form.Validate(); err != nil {
		m.mutex.Unlock()
		m.notifier.Error(err.Error())
		return nil
	}

	mode := m.form.Mode()
	draft := m.form.Draft()
	groupID := m.editing.StatusKey()
	if mode == ModeCreate && m.idempotencyKey == "" {
		m.idempotencyKey = uuid.NewString()
	}
	key := m.idempotencyKey
	m.saving = true
	m.mutex.Unlock()

	var err error
	if mode == ModeCreate {
		_, err = m.caller.Create(ctx, m.guildID, draft, key)
	} else {
		_, err = m.caller.Update(ctx, groupID, m.guildID, draft)
	}

	m.mutex.Lock()
	m.saving = false
	if ctx.Err() != nil {
		m.mutex.Unlock()
		return nil
	}

	if err != nil {
		m.mutex.Unlock()
		return m.report(err)
	}

	m.picker.Close()
	m.form = nil
	m.idempotencyKey = ""
	m.mutex.Unlock()

	if mode == ModeCreate {
		m.notifier.Success("Reaction role created")
	} else {
		m.notifier.Success("Reaction role updated")
	}

	return m.Load(ctx)
}

func (m *Manager) Delete(ctx context.Context, index int) error {
	m.mutex.Lock()
	if index < 0 || index >= len(m.groups) {
		m.mutex.Unlock()
		return ErrInvalidIndex
	}
	messageID := m.groups[index].MessageID
	m.mutex.Unlock()

	if messageID == "" {
		m.notifier.Error("This reaction role has no message")
		return nil
	}

	err := m.caller.DeleteByMessage(ctx, messageID, m.guildID)
	if ctx.Err() != nil {
		return nil
	}

	if err != nil {
		return m.report(err)
	}

	m.notifier.Success("Reaction role deleted")
	return m.Load(ctx)
}

// ToggleStatus flips the status in the table before the request is sent, and
// reverts it if the request fails or is canceled. The outcome of a canceled
// request is unknown, Load gets the status saved by the server.
func (m *Manager) ToggleStatus(ctx context.Context, index int) error {
	m.mutex.Lock()
	if index < 0 || index >= len(m.groups) {
		m.mutex.Unlock()
		return ErrInvalidIndex
	}
	key := m.groups[index].StatusKey()
	status := !m.groups[index].Status
	m.groups[index].Status = status
	m.mutex.Unlock()

	err := m.caller.SetBindingStatus(ctx, key, m.guildID, status)
	if ctx.Err() != nil {
		m.revertStatus(key, status)
		return nil
	}

	if err != nil {
		m.revertStatus(key, status)
		return m.report(err)
	}

	return m.Load(ctx)
}

func (m *Manager) revertStatus(key string, status bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// The table may be reloaded in the meantime.
	for i := range m.groups {
		if m.groups[i].StatusKey() == key {
			m.groups[i].Status = !status
		}
	}
}

func (m *Manager) report(err error) error {
	var unauthorized *client.UnauthorizedError
	var validation *client.ValidationError
	var network *client.NetworkError
	var errx errorx.Error

	switch {
	case errors.As(err, &unauthorized):
		m.notifier.Error(unauthorized.Message)
		return err
	case errors.As(err, &validation):
		m.notifier.Error(validation.Error())
	case errors.As(err, &network):
		m.logger.Errorf("Cannot reach the server: %v", network.Err)
		m.notifier.Error("Cannot reach the server, please try again")
	case errors.As(err, &errx):
		m.notifier.Error(errx.Message)
	default:
		m.logger.Errorf("Unexpected error: %v", err)
		m.notifier.Error("Something went wrong, please try again")
	}

	return nil
}
