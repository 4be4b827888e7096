package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/questx-lab/reactrole/internal/common"
	"github.com/questx-lab/reactrole/internal/entity"
	"github.com/questx-lab/reactrole/internal/model"
	"github.com/questx-lab/reactrole/internal/repository"
	"github.com/questx-lab/reactrole/pkg/api/discord"
	"github.com/questx-lab/reactrole/pkg/enum"
	"github.com/questx-lab/reactrole/pkg/errorx"
	"github.com/questx-lab/reactrole/pkg/pubsub"
	"github.com/questx-lab/reactrole/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	maxIdempotencyKeyLen = 255

	// idempotencyReservationTTL bounds how long a crashed request holds its
	// key before a retry can take it over.
	idempotencyReservationTTL = time.Minute
)

var errIdempotencyInProgress = errorx.New(errorx.AlreadyExists,
	"A request with the same idempotency key is in progress")

type ReactionRoleDomain interface {
	GetList(context.Context, *model.GetReactionRolesRequest) (*model.GetReactionRolesResponse, error)
	Create(context.Context, *model.CreateReactionRoleRequest) (*model.CreateReactionRoleResponse, error)
	Update(context.Context, *model.UpdateReactionRoleRequest) (*model.UpdateReactionRoleResponse, error)
	DeleteByMessage(context.Context, *model.DeleteReactionRoleRequest) (*model.DeleteReactionRoleResponse, error)
	SetStatus(context.Context, *model.SetReactionRoleStatusRequest) (*model.SetReactionRoleStatusResponse, error)
}

type reactionRoleDomain struct {
	reactionRoleRepo repository.ReactionRoleRepository
	idempotencyRepo  repository.IdempotencyRepository
	guildVerifier    *common.GuildVerifier
	discordEndpoint  discord.IEndpoint
	publisher        pubsub.Publisher
}

func NewReactionRoleDomain(
	reactionRoleRepo repository.ReactionRoleRepository,
	idempotencyRepo repository.IdempotencyRepository,
	guildVerifier *common.GuildVerifier,
	discordEndpoint discord.IEndpoint,
	publisher pubsub.Publisher,
) ReactionRoleDomain {
	return &reactionRoleDomain{
		reactionRoleRepo: reactionRoleRepo,
		idempotencyRepo:  idempotencyRepo,
		guildVerifier:    guildVerifier,
		discordEndpoint:  discordEndpoint,
		publisher:        publisher,
	}
}

func (d *reactionRoleDomain) GetList(
	ctx context.Context, req *model.GetReactionRolesRequest,
) (*model.GetReactionRolesResponse, error) {
	if err := d.verifyGuild(ctx, req.GuildID); err != nil {
		return nil, err
	}

	groups, err := d.reactionRoleRepo.GetListByGuildID(ctx, req.GuildID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get reaction roles of guild: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetReactionRolesResponse{ReactionRoles: convertReactionRoleRows(groups)}, nil
}

func (d *reactionRoleDomain) Create(
	ctx context.Context, req *model.CreateReactionRoleRequest,
) (*model.CreateReactionRoleResponse, error) {
	if err := d.verifyGuild(ctx, req.GuildID); err != nil {
		return nil, err
	}

	channelID := strings.TrimSpace(req.ChannelID)
	if channelID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty channel id")
	}

	customMessage := strings.TrimSpace(req.CustomMessage)
	messageID := strings.TrimSpace(req.MessageID)
	if customMessage == "" && messageID == "" {
		return nil, errorx.New(errorx.BadRequest, "Either a custom message or a message id is required")
	}

	if customMessage != "" && messageID != "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow both custom message and message id")
	}

	groupID := uuid.NewString()
	bindings, err := d.newBindings(ctx, groupID, req.Reactions, nil)
	if err != nil {
		return nil, err
	}

	key, err := idempotencyKey(ctx)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	var reservation *entity.Idempotency
	if key != "" {
		group, record, err := d.reserveIdempotencyKey(ctx, userID, req.GuildID, key, groupID)
		if err != nil {
			return nil, err
		}

		if group != nil {
			return &model.CreateReactionRoleResponse{ReactionRoleGroup: convertReactionRoleGroup(group)}, nil
		}
		reservation = record
	}

	// The reservation is released if the group is not created, so that the
	// request can be retried with the same key.
	created := false
	baseCtx := ctx
	defer func() {
		if reservation != nil && !created {
			if err := d.idempotencyRepo.DeleteByID(baseCtx, reservation.ID); err != nil {
				xcontext.Logger(baseCtx).Errorf("Cannot release idempotency key: %v", err)
			}
		}
	}()

	if messageID != "" {
		_, err := d.reactionRoleRepo.GetByMessageID(ctx, req.GuildID, messageID)
		if err == nil {
			return nil, errorx.New(errorx.AlreadyExists, "This message is already configured")
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get reaction role by message: %v", err)
			return nil, errorx.Unknown
		}
	} else {
		msg, err := d.discordEndpoint.SendMessage(ctx, channelID, customMessage)
		if err != nil {
			return nil, discordError(ctx, err, "Cannot send the message to the channel")
		}
		messageID = msg.ID
	}

	status := true
	if req.Status != nil {
		status = *req.Status
	}

	group := &entity.ReactionRoleGroup{
		Base:          entity.Base{ID: groupID},
		GuildID:       req.GuildID,
		MessageID:     messageID,
		ChannelID:     channelID,
		Title:         strings.TrimSpace(req.Title),
		CustomMessage: customMessage,
		Status:        status,
		CreatedBy:     userID,
		Bindings:      bindings,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.reactionRoleRepo.Create(ctx, group); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, errorx.New(errorx.AlreadyExists, "This message is already configured")
		}

		xcontext.Logger(ctx).Errorf("Cannot create reaction role: %v", err)
		return nil, errorx.Unknown
	}

	if reservation != nil {
		expiresAt := time.Now().Add(xcontext.Configs(ctx).ReactionRole.IdempotencyTTL)
		if err := d.idempotencyRepo.Complete(ctx, reservation.ID, expiresAt); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot complete idempotency record: %v", err)
			return nil, errorx.Unknown
		}
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)
	created = true

	d.addReactions(ctx, group.ChannelID, group.MessageID, group.Bindings)
	d.publish(ctx, model.ReactionRoleCreated, group)

	return &model.CreateReactionRoleResponse{ReactionRoleGroup: convertReactionRoleGroup(group)}, nil
}

func (d *reactionRoleDomain) Update(
	ctx context.Context, req *model.UpdateReactionRoleRequest,
) (*model.UpdateReactionRoleResponse, error) {
	group, err := d.getGroupOfGuild(ctx, req.ID, req.GuildID)
	if err != nil {
		return nil, err
	}

	if req.MessageID != "" && req.MessageID != group.MessageID {
		return nil, errorx.New(errorx.MessageNotEditable, "Cannot change the message of a reaction role")
	}

	if channelID := strings.TrimSpace(req.ChannelID); channelID != "" && channelID != group.ChannelID {
		return nil, errorx.New(errorx.MessageNotEditable, "Cannot move the message to another channel")
	}

	customMessage := strings.TrimSpace(req.CustomMessage)
	if group.CustomMessage == "" && customMessage != "" {
		return nil, errorx.New(errorx.MessageNotEditable,
			"Cannot set a custom message on a message not sent by the bot")
	}

	if group.CustomMessage != "" && customMessage == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty custom message")
	}

	bindings, err := d.newBindings(ctx, group.ID, req.Reactions, group.Bindings)
	if err != nil {
		return nil, err
	}

	if customMessage != group.CustomMessage {
		err := d.discordEndpoint.EditMessage(ctx, group.ChannelID, group.MessageID, customMessage)
		if err != nil {
			return nil, discordError(ctx, err, "Cannot edit the message")
		}
	}

	status := group.Status
	if req.Status != nil {
		status = *req.Status
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	err = d.reactionRoleRepo.UpdateByID(ctx, group.ID, &entity.ReactionRoleGroup{
		ChannelID:     group.ChannelID,
		Title:         strings.TrimSpace(req.Title),
		CustomMessage: customMessage,
		Status:        status,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update reaction role: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.reactionRoleRepo.ReplaceBindings(ctx, group.ID, bindings); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot replace reaction bindings: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	d.addReactions(ctx, group.ChannelID, group.MessageID, newEmojiBindings(group.Bindings, bindings))

	updated, err := d.reactionRoleRepo.GetByID(ctx, group.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get the updated reaction role: %v", err)
		return nil, errorx.Unknown
	}

	d.publish(ctx, model.ReactionRoleUpdated, updated)

	return &model.UpdateReactionRoleResponse{ReactionRoleGroup: convertReactionRoleGroup(updated)}, nil
}

func (d *reactionRoleDomain) DeleteByMessage(
	ctx context.Context, req *model.DeleteReactionRoleRequest,
) (*model.DeleteReactionRoleResponse, error) {
	if req.MessageID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty message id")
	}

	if err := d.verifyGuild(ctx, req.GuildID); err != nil {
		return nil, err
	}

	group, err := d.reactionRoleRepo.GetByMessageID(ctx, req.GuildID, req.MessageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reaction role")
		}

		xcontext.Logger(ctx).Errorf("Cannot get reaction role by message: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.reactionRoleRepo.DeleteByID(ctx, group.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete reaction role: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithCommitDBTransaction(ctx)

	d.publish(ctx, model.ReactionRoleDeleted, group)

	return &model.DeleteReactionRoleResponse{}, nil
}

func (d *reactionRoleDomain) SetStatus(
	ctx context.Context, req *model.SetReactionRoleStatusRequest,
) (*model.SetReactionRoleStatusResponse, error) {
	if req.Status == nil {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty status")
	}

	group, err := d.getGroupOfGuild(ctx, req.ID, req.GuildID)
	if err != nil {
		return nil, err
	}

	if err := d.reactionRoleRepo.UpdateStatusByID(ctx, group.ID, *req.Status); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update status of reaction role: %v", err)
		return nil, errorx.Unknown
	}

	group.Status = *req.Status
	d.publish(ctx, model.ReactionRoleStatus, group)

	return &model.SetReactionRoleStatusResponse{ID: group.ID, Status: group.Status}, nil
}

func (d *reactionRoleDomain) verifyGuild(ctx context.Context, guildID string) error {
	if guildID == "" {
		return errorx.New(errorx.BadRequest, "Not allow empty guild id")
	}

	if err := d.guildVerifier.Verify(ctx, guildID); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied: %v", err)
		return errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	return nil
}

// getGroupOfGuild accepts either the id of a group or the id of one of its
// bindings.
func (d *reactionRoleDomain) getGroupOfGuild(
	ctx context.Context, id, guildID string,
) (*entity.ReactionRoleGroup, error) {
	if id == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty id")
	}

	if err := d.verifyGuild(ctx, guildID); err != nil {
		return nil, err
	}

	group, err := d.reactionRoleRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		group, err = d.reactionRoleRepo.GetByBindingID(ctx, id)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found reaction role")
		}

		xcontext.Logger(ctx).Errorf("Cannot get reaction role: %v", err)
		return nil, errorx.Unknown
	}

	if group.GuildID != guildID {
		return nil, errorx.New(errorx.NotFound, "Not found reaction role")
	}

	return group, nil
}

// reserveIdempotencyKey inserts the record of the key before the group is
// created. It returns the group of a completed request with the same key, or
// the inserted record.
func (d *reactionRoleDomain) reserveIdempotencyKey(
	ctx context.Context, userID, guildID, key, groupID string,
) (*entity.ReactionRoleGroup, *entity.Idempotency, error) {
	record := &entity.Idempotency{
		ID:        uuid.NewString(),
		UserID:    userID,
		GuildID:   guildID,
		Key:       key,
		GroupID:   groupID,
		ExpiresAt: time.Now().Add(idempotencyReservationTTL),
	}

	err := d.idempotencyRepo.Create(ctx, record)
	if err == nil {
		return nil, record, nil
	}

	if !repository.IsUniqueViolation(err) {
		xcontext.Logger(ctx).Errorf("Cannot create idempotency record: %v", err)
		return nil, nil, errorx.Unknown
	}

	existing, err := d.idempotencyRepo.Get(ctx, userID, guildID, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// The key is still held by an expired record.
		if err := d.idempotencyRepo.DeleteExpired(ctx, time.Now()); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot delete expired idempotency records: %v", err)
			return nil, nil, errorx.Unknown
		}

		if err := d.idempotencyRepo.Create(ctx, record); err != nil {
			if repository.IsUniqueViolation(err) {
				return nil, nil, errIdempotencyInProgress
			}

			xcontext.Logger(ctx).Errorf("Cannot create idempotency record: %v", err)
			return nil, nil, errorx.Unknown
		}

		return nil, record, nil
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get idempotency record: %v", err)
		return nil, nil, errorx.Unknown
	}

	if !existing.Completed {
		return nil, nil, errIdempotencyInProgress
	}

	group, err := d.reactionRoleRepo.GetByID(ctx, existing.GroupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errorx.New(errorx.NotFound, "The reaction role of this request was deleted")
		}

		xcontext.Logger(ctx).Errorf("Cannot get reaction role: %v", err)
		return nil, nil, errorx.Unknown
	}

	return group, nil, nil
}

// newBindings validates the requested reactions and converts them to the
// bindings of the group. The id of a binding is kept if it belongs to the
// existing bindings.
func (d *reactionRoleDomain) newBindings(
	ctx context.Context,
	groupID string,
	reactions []model.ReactionBinding,
	existing []entity.ReactionBinding,
) ([]entity.ReactionBinding, error) {
	if len(reactions) == 0 {
		return nil, errorx.New(errorx.EmptyBindings, "A reaction role needs at least one reaction")
	}

	maxBindings := xcontext.Configs(ctx).ReactionRole.MaxBindings
	if maxBindings > 0 && len(reactions) > maxBindings {
		return nil, errorx.New(errorx.BadRequest, "Too many reactions (at most %d)", maxBindings)
	}

	existingIDs := map[string]bool{}
	for _, b := range existing {
		existingIDs[b.ID] = true
	}

	emojis := map[string]bool{}
	bindings := []entity.ReactionBinding{}
	for i, r := range reactions {
		emoji := strings.TrimSpace(r.Emoji)
		roleID := strings.TrimSpace(r.RoleID)
		if emoji == "" || roleID == "" {
			return nil, errorx.New(errorx.BadRequest, "Reaction %d needs an emoji and a role", i+1)
		}

		if emojis[emoji] {
			return nil, errorx.New(errorx.BadRequest, "Duplicated emoji %s", emoji)
		}
		emojis[emoji] = true

		reactionType := entity.ReactionToggle
		if r.Type != "" {
			var err error
			reactionType, err = enum.ToEnum[entity.ReactionType](r.Type)
			if err != nil {
				xcontext.Logger(ctx).Debugf("Invalid reaction type: %v", err)
				return nil, errorx.New(errorx.BadRequest, "Invalid reaction type %s", r.Type)
			}
		}

		id := r.ID
		if id == "" || !existingIDs[id] {
			id = uuid.NewString()
		}

		bindings = append(bindings, entity.ReactionBinding{
			Base:     entity.Base{ID: id},
			GroupID:  groupID,
			Emoji:    emoji,
			RoleID:   roleID,
			Type:     reactionType,
			Position: i,
		})
	}

	return bindings, nil
}

func (d *reactionRoleDomain) addReactions(
	ctx context.Context, channelID, messageID string, bindings []entity.ReactionBinding,
) {
	for _, b := range bindings {
		err := d.discordEndpoint.AddReaction(ctx, channelID, messageID, b.Emoji)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Cannot add reaction %s to message %s: %v", b.Emoji, messageID, err)
			if _, ok := discord.IsRateLimit(err); ok {
				return
			}
		}
	}
}

func (d *reactionRoleDomain) publish(ctx context.Context, action string, group *entity.ReactionRoleGroup) {
	b, err := json.Marshal(model.ReactionRoleChangedEvent{
		GuildID:   group.GuildID,
		MessageID: group.MessageID,
		GroupID:   group.ID,
		Action:    action,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal reaction role event: %v", err)
		return
	}

	err = d.publisher.Publish(ctx, model.ReactionRoleTopic, &pubsub.Pack{
		Key: []byte(group.MessageID),
		Msg: b,
	})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish reaction role event: %v", err)
	}
}

func idempotencyKey(ctx context.Context) (string, error) {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return "", nil
	}

	key := strings.TrimSpace(req.Header.Get(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLen {
		return "", errorx.New(errorx.BadRequest, "Idempotency key is too long")
	}

	return key, nil
}

// newEmojiBindings returns the bindings whose emoji is not reacted on the
// message yet.
func newEmojiBindings(previous, current []entity.ReactionBinding) []entity.ReactionBinding {
	reacted := map[string]bool{}
	for _, b := range previous {
		reacted[b.Emoji] = true
	}

	result := []entity.ReactionBinding{}
	for _, b := range current {
		if !reacted[b.Emoji] {
			result = append(result, b)
		}
	}

	return result
}

func discordError(ctx context.Context, err error, msg string) error {
	if resetAt, ok := discord.IsRateLimit(err); ok {
		return errorx.New(errorx.DiscordRateLimit,
			"Discord is rate limiting, retry after %s", time.Until(resetAt).Round(time.Second))
	}

	xcontext.Logger(ctx).Warnf("%s: %v", msg, err)
	return errorx.New(errorx.Unavailable, "%s", msg)
}
