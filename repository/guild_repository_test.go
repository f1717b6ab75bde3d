package repository

import (
	"context"
	"testing"

	"aoba/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuildRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewGuildRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing guild", func(t *testing.T) {
		testDB.Reset(t)

		guild, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Nil(t, guild)
	})

	t.Run("create is idempotent", func(t *testing.T) {
		testDB.Reset(t)

		created, err := repo.Create(ctx, testutil.CreateTestGuild(1))
		require.NoError(t, err)
		assert.True(t, created)

		created, err = repo.Create(ctx, testutil.CreateTestGuild(1))
		require.NoError(t, err)
		assert.False(t, created)

		guilds, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, guilds, 1)
		assert.Equal(t, "!", guilds[0].CommandPrefix)
		assert.Nil(t, guilds[0].AnnouncementChannelID)
		assert.False(t, guilds[0].CreatedAt.IsZero())
	})

	t.Run("update prefix and channel", func(t *testing.T) {
		testDB.Reset(t)

		_, err := repo.Create(ctx, testutil.CreateTestGuild(2))
		require.NoError(t, err)

		guild, err := repo.GetByID(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, guild)

		channel := int64(12345)
		guild.CommandPrefix = "?"
		guild.AnnouncementChannelID = &channel
		require.NoError(t, repo.Update(ctx, guild))

		reloaded, err := repo.GetByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "?", reloaded.CommandPrefix)
		require.NotNil(t, reloaded.AnnouncementChannelID)
		assert.Equal(t, channel, *reloaded.AnnouncementChannelID)

		reloaded.AnnouncementChannelID = nil
		require.NoError(t, repo.Update(ctx, reloaded))

		cleared, err := repo.GetByID(ctx, 2)
		require.NoError(t, err)
		assert.Nil(t, cleared.AnnouncementChannelID)
	})

	t.Run("update unknown guild", func(t *testing.T) {
		testDB.Reset(t)

		err := repo.Update(ctx, testutil.CreateTestGuild(404))
		assert.Error(t, err)
	})
}
