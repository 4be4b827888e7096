package bot

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/questx-lab/reactrole/internal/domain"
	"github.com/questx-lab/reactrole/pkg/xcontext"
)

const processTimeout = 15 * time.Second

// ReactionHandler forwards the reaction events of the gateway to the
// processor.
type ReactionHandler struct {
	ctx       context.Context
	processor domain.ReactionProcessor
}

func NewReactionHandler(ctx context.Context, processor domain.ReactionProcessor) *ReactionHandler {
	return &ReactionHandler{ctx: ctx, processor: processor}
}

func (h *ReactionHandler) OnReactionAdd(_ *discordgo.Session, r *discordgo.MessageReactionAdd) {
	if r.MessageReaction == nil {
		return
	}

	isBot := r.Member != nil && r.Member.User != nil && r.Member.User.Bot
	h.handle(toEvent(r.MessageReaction, true, isBot))
}

func (h *ReactionHandler) OnReactionRemove(_ *discordgo.Session, r *discordgo.MessageReactionRemove) {
	if r.MessageReaction == nil {
		return
	}

	h.handle(toEvent(r.MessageReaction, false, false))
}

func (h *ReactionHandler) handle(event domain.ReactionEvent) {
	if event.GuildID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(h.ctx, processTimeout)
	defer cancel()

	action, err := h.processor.Process(ctx, event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot process reaction %s of user %s on message %s: %v",
			event.Emoji, event.UserID, event.MessageID, err)
		return
	}

	if action != domain.ActionNone {
		xcontext.Logger(ctx).Infof("%s | %s | %s | %s", action, event.GuildID, event.UserID, event.Emoji)
	}
}

func toEvent(r *discordgo.MessageReaction, added, isBot bool) domain.ReactionEvent {
	return domain.ReactionEvent{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.MessageFormat(),
		Added:     added,
		IsBot:     isBot,
	}
}
