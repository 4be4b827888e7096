package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/questx-lab/reactrole/internal/client"
	"github.com/questx-lab/reactrole/internal/model"
	"github.com/questx-lab/reactrole/pkg/logger"
	"github.com/stretchr/testify/require"
)

type recordedNotifier struct {
	mutex     sync.Mutex
	successes []string
	errors    []string
}

func (n *recordedNotifier) Success(msg string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordedNotifier) Error(msg string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.errors = append(n.errors, msg)
}

func newTestManager(caller client.ReactionRoleCaller) (*Manager, *recordedNotifier) {
	notifier := &recordedNotifier{}
	return NewManager(caller, "guild1", notifier, logger.NewLogger(logger.SILENCE)), notifier
}

func fillForm(f *Form) {
	f.SetField(FieldChannelID, "c1")
	f.SetField(FieldTitle, "Welcome")
	f.SetField(FieldCustomMessage, "Pick a role")
	f.UpdateBinding(0, BindingEmoji, "🎮")
	f.UpdateBinding(0, BindingRoleID, "gamer")
}

func TestManager_Load(t *testing.T) {
	fail := true
	caller := &client.MockReactionRoleCaller{
		ListFunc: func(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error) {
			if fail {
				return nil, &client.NetworkError{Err: errors.New("connection refused")}
			}
			return []model.ReactionRoleRow{
				{ID: "b1", MessageID: "m1"}, {ID: "b2", MessageID: "m1"}, {ID: "b3", MessageID: "m2"},
			}, nil
		},
	}

	m, notifier := newTestManager(caller)
	require.NoError(t, m.Load(context.Background()))
	require.Empty(t, m.Groups())
	require.Equal(t, []string{"Cannot reach the server, please try again"}, notifier.errors)

	fail = false
	require.NoError(t, m.Load(context.Background()))
	require.Len(t, m.Groups(), 2)
}

func TestManager_SingleModal(t *testing.T) {
	caller := &client.MockReactionRoleCaller{
		ListFunc: func(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error) {
			return []model.ReactionRoleRow{{ID: "b1", GroupID: "g1", MessageID: "m1", Title: "Games"}}, nil
		},
	}
	m, _ := newTestManager(caller)
	require.NoError(t, m.Load(context.Background()))

	f, err := m.OpenCreate(context.Background())
	require.NoError(t, err)
	require.Equal(t, ModeCreate, f.Mode())

	_, err = m.OpenEdit(context.Background(), 0)
	require.ErrorIs(t, err, ErrModalOpen)

	require.NoError(t, m.Close())
	require.Nil(t, m.Form())

	_, err = m.OpenEdit(context.Background(), 1)
	require.ErrorIs(t, err, ErrInvalidIndex)

	f, err = m.OpenEdit(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, ModeEdit, f.Mode())
	require.Equal(t, "Games", f.Draft().Title)

	require.ErrorIs(t, m.Delete(context.Background(), 3), ErrInvalidIndex)
}

func TestManager_SubmitCreate(t *testing.T) {
	created := []model.ReactionRoleGroup{}
	keys := []string{}
	fail := true

	caller := &client.MockReactionRoleCaller{
		ListFunc: func(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error) {
			rows := []model.ReactionRoleRow{}
			for _, g := range created {
				rows = append(rows, model.ReactionRoleRow{
					ID: "b1", GroupID: "g1", MessageID: "m1", ChannelID: g.ChannelID,
					Emoji: g.Reactions[0].Emoji, RoleID: g.Reactions[0].RoleID, Type: g.Reactions[0].Type,
				})
			}
			return rows, nil
		},
		CreateFunc: func(
			ctx context.Context, guildID string, draft model.ReactionRoleGroup, idempotencyKey string,
		) (*model.ReactionRoleGroup, error) {
			keys = append(keys, idempotencyKey)
			if fail {
				return nil, &client.NetworkError{Err: errors.New("timeout")}
			}
			created = append(created, draft)
			return &draft, nil
		},
	}

	m, notifier := newTestManager(caller)

	// The gate rejects an empty form without calling the server.
	_, err := m.OpenCreate(context.Background())
	require.NoError(t, err)
	require.NoError(t, m.Submit(context.Background()))
	require.Empty(t, keys)
	require.Equal(t, []string{"Please select a channel"}, notifier.errors)

	fillForm(m.Form())
	require.NoError(t, m.Submit(context.Background()))
	require.NotNil(t, m.Form())
	require.False(t, m.Saving())

	fail = false
	require.NoError(t, m.Submit(context.Background()))
	require.Nil(t, m.Form())

	require.Len(t, keys, 2)
	require.NotEmpty(t, keys[0])
	require.Equal(t, keys[0], keys[1])
	require.Equal(t, []string{"Reaction role created"}, notifier.successes)

	groups := m.Groups()
	require.Len(t, groups, 1)
	require.Equal(t, "toggle", groups[0].Reactions[0].Type)

	// A new form gets a new key.
	_, err = m.OpenCreate(context.Background())
	require.NoError(t, err)
	fillForm(m.Form())
	require.NoError(t, m.Submit(context.Background()))
	require.Len(t, keys, 3)
	require.NotEqual(t, keys[0], keys[2])
}

func TestManager_SubmitInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	caller := &client.MockReactionRoleCaller{
		CreateFunc: func(
			ctx context.Context, guildID string, draft model.ReactionRoleGroup, idempotencyKey string,
		) (*model.ReactionRoleGroup, error) {
			close(started)
			<-release
			return &draft, nil
		},
	}

	m, _ := newTestManager(caller)
	_, err := m.OpenCreate(context.Background())
	require.NoError(t, err)
	fillForm(m.Form())

	done := make(chan error)
	go func() {
		done <- m.Submit(context.Background())
	}()

	<-started
	require.True(t, m.Saving())
	require.ErrorIs(t, m.Submit(context.Background()), ErrSubmitInFlight)
	require.ErrorIs(t, m.Close(), ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
	require.False(t, m.Saving())
}

func TestManager_SubmitUpdate(t *testing.T) {
	var updatedID string
	var updated model.ReactionRoleGroup
	caller := &client.MockReactionRoleCaller{
		ListFunc: func(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error) {
			return []model.ReactionRoleRow{{
				ID: "b1", GroupID: "g1", MessageID: "m1", ChannelID: "c1", Title: "Games",
				CustomMessage: "Pick", Status: true, Emoji: "🎮", RoleID: "gamer", Type: "toggle",
			}}, nil
		},
		UpdateFunc: func(
			ctx context.Context, groupID, guildID string, draft model.ReactionRoleGroup,
		) (*model.ReactionRoleGroup, error) {
			updatedID = groupID
			updated = draft
			return &draft, nil
		},
	}

	m, notifier := newTestManager(caller)
	require.NoError(t, m.Load(context.Background()))

	f, err := m.OpenEdit(context.Background(), 0)
	require.NoError(t, err)
	f.SetField(FieldTitle, "Games v2")

	require.NoError(t, m.Submit(context.Background()))
	require.Equal(t, "g1", updatedID)
	require.Equal(t, "Games v2", updated.Title)
	require.Equal(t, "m1", updated.MessageID)
	require.Equal(t, []string{"Reaction role updated"}, notifier.successes)
}

func TestManager_ToggleStatusReverts(t *testing.T) {
	var patched []string
	var statuses []bool
	caller := &client.MockReactionRoleCaller{
		ListFunc: func(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error) {
			return []model.ReactionRoleRow{
				{ID: "b42", MessageID: "m1", Status: true},
				{ID: "b43", MessageID: "m1", Status: true},
			}, nil
		},
		SetBindingStatusFunc: func(ctx context.Context, id, guildID string, status bool) error {
			patched = append(patched, id)
			statuses = append(statuses, status)
			return &client.NetworkError{Err: errors.New("offline")}
		},
	}

	m, notifier := newTestManager(caller)
	require.NoError(t, m.Load(context.Background()))

	require.NoError(t, m.ToggleStatus(context.Background(), 0))
	require.Equal(t, []string{"b42"}, patched)
	require.Equal(t, []bool{false}, statuses)
	require.True(t, m.Groups()[0].Status)
	require.Equal(t, []string{"Cannot reach the server, please try again"}, notifier.errors)
}

func TestManager_ToggleStatusOptimistic(t *testing.T) {
	var seen bool
	var m *Manager
	caller := &client.MockReactionRoleCaller{
		ListFunc: func(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error) {
			return []model.ReactionRoleRow{{ID: "b1", GroupID: "g1", MessageID: "m1", Status: !seen}}, nil
		},
		SetBindingStatusFunc: func(ctx context.Context, id, guildID string, status bool) error {
			// The table is flipped before the server answers.
			seen = !m.Groups()[0].Status
			return nil
		},
	}
	m, _ = newTestManager(caller)

	require.NoError(t, m.Load(context.Background()))
	require.NoError(t, m.ToggleStatus(context.Background(), 0))
	require.True(t, seen)
	require.False(t, m.Groups()[0].Status)
}

func TestManager_Unauthorized(t *testing.T) {
	caller := &client.MockReactionRoleCaller{
		ListFunc: func(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error) {
			return []model.ReactionRoleRow{{ID: "b1", MessageID: "m1"}}, nil
		},
		DeleteByMessageFunc: func(ctx context.Context, messageID, guildID string) error {
			return &client.UnauthorizedError{Message: "Invalid or expired access token"}
		},
	}

	m, notifier := newTestManager(caller)
	require.NoError(t, m.Load(context.Background()))

	err := m.Delete(context.Background(), 0)
	var uerr *client.UnauthorizedError
	require.ErrorAs(t, err, &uerr)
	require.Equal(t, []string{"Invalid or expired access token"}, notifier.errors)
}

func TestManager_DeleteWithoutMessage(t *testing.T) {
	deleted := false
	caller := &client.MockReactionRoleCaller{
		ListFunc: func(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error) {
			return []model.ReactionRoleRow{{ID: "b1"}}, nil
		},
		DeleteByMessageFunc: func(ctx context.Context, messageID, guildID string) error {
			deleted = true
			return nil
		},
	}

	m, notifier := newTestManager(caller)
	require.NoError(t, m.Load(context.Background()))
	require.NoError(t, m.Delete(context.Background(), 0))
	require.False(t, deleted)
	require.Equal(t, []string{"This reaction role has no message"}, notifier.errors)
}

func TestManager_CanceledResponseIsDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	caller := &client.MockReactionRoleCaller{
		ListFunc: func(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error) {
			cancel()
			return []model.ReactionRoleRow{{ID: "b1", MessageID: "m1"}}, nil
		},
	}

	m, notifier := newTestManager(caller)
	require.NoError(t, m.Load(ctx))
	require.Empty(t, m.Groups())
	require.Empty(t, notifier.errors)
}

func TestManager_OpenReturnsItsForm(t *testing.T) {
	var m *Manager
	reopened := false
	caller := &client.MockReactionRoleCaller{
		ListFunc: func(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error) {
			return []model.ReactionRoleRow{{ID: "b1", GroupID: "g1", MessageID: "m1", Title: "Games"}}, nil
		},
		GuildEmojisFunc: func(ctx context.Context, guildID string) ([]model.Emoji, error) {
			// The form is closed and another one opened while the emojis load.
			if !reopened {
				reopened = true
				require.NoError(t, m.Close())
				_, err := m.OpenEdit(ctx, 0)
				require.NoError(t, err)
			}
			return nil, nil
		},
	}
	m, _ = newTestManager(caller)
	require.NoError(t, m.Load(context.Background()))

	f, err := m.OpenCreate(context.Background())
	require.NoError(t, err)
	require.Equal(t, ModeCreate, f.Mode())
	require.Equal(t, ModeEdit, m.Form().Mode())
}

func TestManager_ToggleStatusCanceledReverts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	caller := &client.MockReactionRoleCaller{
		ListFunc: func(ctx context.Context, guildID string) ([]model.ReactionRoleRow, error) {
			return []model.ReactionRoleRow{{ID: "b1", GroupID: "g1", MessageID: "m1", Status: true}}, nil
		},
		SetBindingStatusFunc: func(ctx context.Context, id, guildID string, status bool) error {
			cancel()
			return ctx.Err()
		},
	}

	m, notifier := newTestManager(caller)
	require.NoError(t, m.Load(context.Background()))

	require.NoError(t, m.ToggleStatus(ctx, 0))
	require.True(t, m.Groups()[0].Status)
	require.Empty(t, notifier.errors)
}
