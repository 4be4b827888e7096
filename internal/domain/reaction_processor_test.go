package domain

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/questx-lab/reactrole/internal/entity"
	"github.com/questx-lab/reactrole/internal/model"
	"github.com/questx-lab/reactrole/internal/repository"
	"github.com/questx-lab/reactrole/pkg/pubsub"
	"github.com/questx-lab/reactrole/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_decide(t *testing.T) {
	tests := []struct {
		reactionType entity.ReactionType
		added        bool
		want         ReactionAction
	}{
		{reactionType: entity.ReactionToggle, added: true, want: ActionGiveRole},
		{reactionType: entity.ReactionToggle, added: false, want: ActionRemoveRole},
		{reactionType: entity.ReactionAddOnly, added: true, want: ActionGiveRole},
		{reactionType: entity.ReactionAddOnly, added: false, want: ActionNone},
		{reactionType: entity.ReactionRemoveOnly, added: true, want: ActionRemoveRole},
		{reactionType: entity.ReactionRemoveOnly, added: false, want: ActionNone},
		{reactionType: "unknown", added: true, want: ActionNone},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, decide(tt.reactionType, tt.added), "%s added=%v", tt.reactionType, tt.added)
	}
}

func Test_emojiKey(t *testing.T) {
	require.Equal(t, "🎮", emojiKey("🎮"))
	require.Equal(t, "1001", emojiKey("<:chess:1001>"))
	require.Equal(t, "1001", emojiKey("<a:chess:1001>"))
}

type roleCall struct {
	action ReactionAction
	userID string
	roleID string
}

func newTestReactionProcessor(calls *[]roleCall) ReactionProcessor {
	endpoint := &testutil.MockDiscordEndpoint{
		GiveRoleFunc: func(ctx context.Context, guildID, userID, roleID string) error {
			*calls = append(*calls, roleCall{ActionGiveRole, userID, roleID})
			return nil
		},
		RemoveRoleFunc: func(ctx context.Context, guildID, userID, roleID string) error {
			*calls = append(*calls, roleCall{ActionRemoveRole, userID, roleID})
			return nil
		},
	}

	return NewReactionProcessor(repository.NewReactionRoleRepository(), endpoint, "bot")
}

func Test_reactionProcessor_Process(t *testing.T) {
	tests := []struct {
		name      string
		event     ReactionEvent
		want      ReactionAction
		wantCalls []roleCall
	}{
		{
			name: "toggle added",
			event: ReactionEvent{
				GuildID: testutil.Guild1, MessageID: "message1", UserID: "u", Emoji: "🎮", Added: true,
			},
			want:      ActionGiveRole,
			wantCalls: []roleCall{{ActionGiveRole, "u", "gamer"}},
		},
		{
			name: "toggle removed",
			event: ReactionEvent{
				GuildID: testutil.Guild1, MessageID: "message1", UserID: "u", Emoji: "🎮",
			},
			want:      ActionRemoveRole,
			wantCalls: []roleCall{{ActionRemoveRole, "u", "gamer"}},
		},
		{
			name: "renamed custom emoji",
			event: ReactionEvent{
				GuildID: testutil.Guild1, MessageID: "message1", UserID: "u", Emoji: "<:chess2:1001>", Added: true,
			},
			want:      ActionGiveRole,
			wantCalls: []roleCall{{ActionGiveRole, "u", "chess"}},
		},
		{
			name: "add only removed",
			event: ReactionEvent{
				GuildID: testutil.Guild1, MessageID: "message1", UserID: "u", Emoji: "<:chess:1001>",
			},
			want: ActionNone,
		},
		{
			name: "inactive group",
			event: ReactionEvent{
				GuildID: testutil.Guild1, MessageID: "message2", UserID: "u", Emoji: "✅", Added: true,
			},
			want: ActionNone,
		},
		{
			name: "unknown emoji",
			event: ReactionEvent{
				GuildID: testutil.Guild1, MessageID: "message1", UserID: "u", Emoji: "🔥", Added: true,
			},
			want: ActionNone,
		},
		{
			name: "unknown message",
			event: ReactionEvent{
				GuildID: testutil.Guild1, MessageID: "other", UserID: "u", Emoji: "🎮", Added: true,
			},
			want: ActionNone,
		},
		{
			name: "message of another guild",
			event: ReactionEvent{
				GuildID: testutil.Guild2, MessageID: "message1", UserID: "u", Emoji: "🎮", Added: true,
			},
			want: ActionNone,
		},
		{
			name: "bot user",
			event: ReactionEvent{
				GuildID: testutil.Guild1, MessageID: "message1", UserID: "u", Emoji: "🎮", Added: true, IsBot: true,
			},
			want: ActionNone,
		},
		{
			name: "the bot itself",
			event: ReactionEvent{
				GuildID: testutil.Guild1, MessageID: "message1", UserID: "bot", Emoji: "🎮", Added: true,
			},
			want: ActionNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.MockContext()
			testutil.CreateFixtureDb(ctx)

			calls := []roleCall{}
			p := newTestReactionProcessor(&calls)

			action, err := p.Process(ctx, tt.event)
			require.NoError(t, err)
			require.Equal(t, tt.want, action)
			if tt.wantCalls == nil {
				tt.wantCalls = []roleCall{}
			}
			require.Equal(t, tt.wantCalls, calls)
		})
	}
}

func Test_reactionProcessor_Invalidate(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	calls := []roleCall{}
	p := newTestReactionProcessor(&calls)

	event := ReactionEvent{GuildID: testutil.Guild1, MessageID: "message2", UserID: "u", Emoji: "✅", Added: true}
	action, err := p.Process(ctx, event)
	require.NoError(t, err)
	require.Equal(t, ActionNone, action)

	// The group is enabled, but the processor still uses the cached one.
	repo := repository.NewReactionRoleRepository()
	require.NoError(t, repo.UpdateStatusByID(ctx, testutil.Group2.ID, true))

	action, err = p.Process(ctx, event)
	require.NoError(t, err)
	require.Equal(t, ActionNone, action)

	msg, err := json.Marshal(model.ReactionRoleChangedEvent{
		GuildID:   testutil.Guild1,
		MessageID: "message2",
		GroupID:   testutil.Group2.ID,
		Action:    model.ReactionRoleStatus,
	})
	require.NoError(t, err)
	p.Invalidate(ctx, &pubsub.Pack{Key: []byte("message2"), Msg: msg}, time.Now())

	action, err = p.Process(ctx, event)
	require.NoError(t, err)
	require.Equal(t, ActionRemoveRole, action)
	require.Equal(t, []roleCall{{ActionRemoveRole, "u", "member"}}, calls)
}

// hookedReactionRoleRepository calls afterLoad once, after loading a group and
// before the processor caches it.
type hookedReactionRoleRepository struct {
	repository.ReactionRoleRepository
	afterLoad func()
}

func (r *hookedReactionRoleRepository) GetByMessageID(
	ctx context.Context, guildID, messageID string,
) (*entity.ReactionRoleGroup, error) {
	group, err := r.ReactionRoleRepository.GetByMessageID(ctx, guildID, messageID)
	if r.afterLoad != nil {
		hook := r.afterLoad
		r.afterLoad = nil
		hook()
	}
	return group, err
}

func Test_reactionProcessor_InvalidateDuringLoad(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)

	calls := []roleCall{}
	endpoint := &testutil.MockDiscordEndpoint{
		RemoveRoleFunc: func(ctx context.Context, guildID, userID, roleID string) error {
			calls = append(calls, roleCall{ActionRemoveRole, userID, roleID})
			return nil
		},
	}

	repo := &hookedReactionRoleRepository{ReactionRoleRepository: repository.NewReactionRoleRepository()}
	p := NewReactionProcessor(repo, endpoint, "bot")

	msg, err := json.Marshal(model.ReactionRoleChangedEvent{
		GuildID:   testutil.Guild1,
		MessageID: "message2",
		GroupID:   testutil.Group2.ID,
		Action:    model.ReactionRoleStatus,
	})
	require.NoError(t, err)

	// The group is enabled after the processor loaded the disabled one.
	repo.afterLoad = func() {
		require.NoError(t, repo.UpdateStatusByID(ctx, testutil.Group2.ID, true))
		p.Invalidate(ctx, &pubsub.Pack{Key: []byte("message2"), Msg: msg}, time.Now())
	}

	event := ReactionEvent{GuildID: testutil.Guild1, MessageID: "message2", UserID: "u", Emoji: "✅", Added: true}
	action, err := p.Process(ctx, event)
	require.NoError(t, err)
	require.Equal(t, ActionNone, action)

	// The stale group was not cached, the next event loads the enabled one.
	action, err = p.Process(ctx, event)
	require.NoError(t, err)
	require.Equal(t, ActionRemoveRole, action)
	require.Equal(t, []roleCall{{ActionRemoveRole, "u", "member"}}, calls)
}
