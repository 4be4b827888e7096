package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/reactrole/internal/common"
	"github.com/questx-lab/reactrole/internal/entity"
	"github.com/questx-lab/reactrole/internal/model"
	"github.com/questx-lab/reactrole/internal/repository"
	"github.com/questx-lab/reactrole/pkg/api/discord"
	"github.com/questx-lab/reactrole/pkg/pubsub"
	"github.com/questx-lab/reactrole/pkg/xcontext"
	"gorm.io/gorm"
)

type ReactionAction string

const (
	ActionNone       ReactionAction = "none"
	ActionGiveRole   ReactionAction = "give_role"
	ActionRemoveRole ReactionAction = "remove_role"
)

// ReactionEvent is a reaction added to or removed from a message by a member.
type ReactionEvent struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Emoji     string
	Added     bool
	IsBot     bool
}

type ReactionProcessor interface {
	Process(ctx context.Context, event ReactionEvent) (ReactionAction, error)

	// Invalidate drops the cached group of a changed reaction role. It is the
	// handler of the reaction role topic.
	Invalidate(ctx context.Context, pack *pubsub.Pack, t time.Time)
}

type cachedGroup struct {
	// group is nil if the message is not configured.
	group     *entity.ReactionRoleGroup
	expiredAt time.Time
}

type reactionProcessor struct {
	reactionRoleRepo repository.ReactionRoleRepository
	discordEndpoint  discord.IEndpoint
	botID            string

	groups *xsync.MapOf[string, cachedGroup]

	// versions counts the invalidations of each key. A group loaded before an
	// invalidation of its key is not cached. mu guards versions and the writes
	// to groups.
	mu       sync.Mutex
	versions map[string]uint64
}

func NewReactionProcessor(
	reactionRoleRepo repository.ReactionRoleRepository,
	discordEndpoint discord.IEndpoint,
	botID string,
) ReactionProcessor {
	return &reactionProcessor{
		reactionRoleRepo: reactionRoleRepo,
		discordEndpoint:  discordEndpoint,
		botID:            botID,
		groups:           xsync.NewMapOf[cachedGroup](),
		versions:         make(map[string]uint64),
	}
}

// decide returns the action to apply on the role of a binding.
//
//	type        | added       | removed
//	toggle      | give role   | remove role
//	add_only    | give role   | none
//	remove_only | remove role | none
func decide(reactionType entity.ReactionType, added bool) ReactionAction {
	switch reactionType {
	case entity.ReactionToggle:
		if added {
			return ActionGiveRole
		}
		return ActionRemoveRole
	case entity.ReactionAddOnly:
		if added {
			return ActionGiveRole
		}
	case entity.ReactionRemoveOnly:
		if added {
			return ActionRemoveRole
		}
	}

	return ActionNone
}

func (p *reactionProcessor) Process(ctx context.Context, event ReactionEvent) (ReactionAction, error) {
	if event.IsBot || event.UserID == p.botID {
		return ActionNone, nil
	}

	group, err := p.getGroup(ctx, event.GuildID, event.MessageID)
	if err != nil {
		return ActionNone, err
	}

	if group == nil || !group.Status {
		return ActionNone, nil
	}

	var binding *entity.ReactionBinding
	for i := range group.Bindings {
		if emojiKey(group.Bindings[i].Emoji) == emojiKey(event.Emoji) {
			binding = &group.Bindings[i]
			break
		}
	}

	if binding == nil {
		return ActionNone, nil
	}

	action := decide(binding.Type, event.Added)
	switch action {
	case ActionGiveRole:
		err = p.discordEndpoint.GiveRole(ctx, event.GuildID, event.UserID, binding.RoleID)
	case ActionRemoveRole:
		err = p.discordEndpoint.RemoveRole(ctx, event.GuildID, event.UserID, binding.RoleID)
	}

	if err != nil {
		return ActionNone, err
	}

	if counter, ok := common.PromCounters[common.ReactionProcessedTotal]; ok {
		counter.WithLabelValues(string(action)).Inc()
	}

	return action, nil
}

func (p *reactionProcessor) Invalidate(ctx context.Context, pack *pubsub.Pack, t time.Time) {
	var event model.ReactionRoleChangedEvent
	if err := json.Unmarshal(pack.Msg, &event); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal reaction role event: %v", err)
		return
	}

	key := groupCacheKey(event.GuildID, event.MessageID)
	p.mu.Lock()
	p.versions[key]++
	p.groups.Delete(key)
	p.mu.Unlock()

	xcontext.Logger(ctx).Debugf("Reaction role of message %s is %s", event.MessageID, event.Action)
}

func (p *reactionProcessor) getGroup(
	ctx context.Context, guildID, messageID string,
) (*entity.ReactionRoleGroup, error) {
	key := groupCacheKey(guildID, messageID)
	if cached, ok := p.groups.Load(key); ok && time.Now().Before(cached.expiredAt) {
		return cached.group, nil
	}

	p.mu.Lock()
	version := p.versions[key]
	p.mu.Unlock()

	group, err := p.reactionRoleRepo.GetByMessageID(ctx, guildID, messageID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		group = nil
	}

	p.mu.Lock()
	if p.versions[key] == version {
		p.groups.Store(key, cachedGroup{
			group:     group,
			expiredAt: time.Now().Add(xcontext.Configs(ctx).ReactionRole.CacheTTL),
		})
	}
	p.mu.Unlock()

	return group, nil
}

func groupCacheKey(guildID, messageID string) string {
	return guildID + ":" + messageID
}

// emojiKey identifies a custom emoji by its id, since its name can be renamed
// and the animated flag is not always known. A unicode emoji is its own key.
func emojiKey(emoji string) string {
	if strings.HasPrefix(emoji, "<") && strings.HasSuffix(emoji, ">") {
		parts := strings.Split(strings.Trim(emoji, "<>"), ":")
		return parts[len(parts)-1]
	}

	return emoji
}
