package repository_test

import (
	"errors"
	"testing"

	"github.com/questx-lab/reactrole/internal/entity"
	"github.com/questx-lab/reactrole/internal/repository"
	"github.com/questx-lab/reactrole/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func bindingIDs(group *entity.ReactionRoleGroup) []string {
	ids := []string{}
	for _, b := range group.Bindings {
		ids = append(ids, b.ID)
	}
	return ids
}

func Test_reactionRoleRepository_Get(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewReactionRoleRepository()

	group, err := repo.GetByID(ctx, testutil.Group1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.Group1.MessageID, group.MessageID)
	require.Equal(t, []string{"binding1", "binding2"}, bindingIDs(group))

	group, err = repo.GetByBindingID(ctx, "binding2")
	require.NoError(t, err)
	require.Equal(t, testutil.Group1.ID, group.ID)

	group, err = repo.GetByMessageID(ctx, testutil.Guild1, testutil.Group2.MessageID)
	require.NoError(t, err)
	require.Equal(t, testutil.Group2.ID, group.ID)
	require.False(t, group.Status)

	_, err = repo.GetByMessageID(ctx, testutil.Guild2, testutil.Group2.MessageID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	groups, err := repo.GetListByGuildID(ctx, testutil.Guild1)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	require.Equal(t, testutil.Group1.ID, groups[0].ID)
	require.Equal(t, testutil.Group2.ID, groups[1].ID)
}

func Test_reactionRoleRepository_UniqueMessage(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewReactionRoleRepository()

	err := repo.Create(ctx, &entity.ReactionRoleGroup{
		Base:      entity.Base{ID: "duplicated"},
		GuildID:   testutil.Guild1,
		MessageID: testutil.Group1.MessageID,
		ChannelID: "channel1",
	})
	require.Error(t, err)

	// The same message id in another guild is allowed.
	err = repo.Create(ctx, &entity.ReactionRoleGroup{
		Base:      entity.Base{ID: "other-guild"},
		GuildID:   testutil.Guild2,
		MessageID: testutil.Group1.MessageID,
		ChannelID: "channel2",
	})
	require.NoError(t, err)
}

func Test_reactionRoleRepository_Update(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewReactionRoleRepository()

	err := repo.UpdateByID(ctx, testutil.Group1.ID, &entity.ReactionRoleGroup{
		MessageID: "ignored",
		ChannelID: "channel9",
		Title:     "",
		Status:    false,
	})
	require.NoError(t, err)

	err = repo.ReplaceBindings(ctx, testutil.Group1.ID, []entity.ReactionBinding{
		{Base: entity.Base{ID: "binding9"}, GroupID: testutil.Group1.ID, Emoji: "🔥", RoleID: "fire", Type: entity.ReactionToggle},
	})
	require.NoError(t, err)

	group, err := repo.GetByID(ctx, testutil.Group1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.Group1.MessageID, group.MessageID)
	require.Equal(t, "channel9", group.ChannelID)
	require.Empty(t, group.Title)
	require.False(t, group.Status)
	require.Equal(t, []string{"binding9"}, bindingIDs(group))

	require.NoError(t, repo.UpdateStatusByID(ctx, testutil.Group1.ID, true))
	group, err = repo.GetByID(ctx, testutil.Group1.ID)
	require.NoError(t, err)
	require.True(t, group.Status)
}

func Test_reactionRoleRepository_Delete(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	repo := repository.NewReactionRoleRepository()

	require.NoError(t, repo.DeleteByID(ctx, testutil.Group1.ID))

	_, err := repo.GetByID(ctx, testutil.Group1.ID)
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	_, err = repo.GetByBindingID(ctx, "binding1")
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	// The message can be configured again.
	err = repo.Create(ctx, &entity.ReactionRoleGroup{
		Base:      entity.Base{ID: "again"},
		GuildID:   testutil.Guild1,
		MessageID: testutil.Group1.MessageID,
		ChannelID: "channel1",
	})
	require.NoError(t, err)
}
