package repository

import (
	"context"
	"testing"

	"aoba/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomCommandRepository(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	guilds := NewGuildRepository(testDB.DB)
	repo := NewCustomCommandRepository(testDB.DB)
	ctx := context.Background()

	seedGuilds := func(t *testing.T, ids ...int64) {
		t.Helper()
		testDB.Reset(t)
		for _, id := range ids {
			_, err := guilds.Create(ctx, testutil.CreateTestGuild(id))
			require.NoError(t, err)
		}
	}

	t.Run("upsert replaces text", func(t *testing.T) {
		seedGuilds(t, 1)

		first, err := repo.Upsert(ctx, testutil.CreateTestCustomCommand(1, "hello", "world"))
		require.NoError(t, err)
		assert.NotZero(t, first.ID)

		second, err := repo.Upsert(ctx, testutil.CreateTestCustomCommand(1, "hello", "there"))
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "there", second.Text)

		cmd, err := repo.GetByGuildAndName(ctx, 1, "hello")
		require.NoError(t, err)
		require.NotNil(t, cmd)
		assert.Equal(t, "there", cmd.Text)
	})

	t.Run("same name in two guilds", func(t *testing.T) {
		seedGuilds(t, 1, 2)

		_, err := repo.Upsert(ctx, testutil.CreateTestCustomCommand(1, "foo", "one"))
		require.NoError(t, err)
		_, err = repo.Upsert(ctx, testutil.CreateTestCustomCommand(2, "foo", "two"))
		require.NoError(t, err)

		cmd, err := repo.GetByGuildAndName(ctx, 2, "foo")
		require.NoError(t, err)
		require.NotNil(t, cmd)
		assert.Equal(t, "two", cmd.Text)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)

		deleted, err := repo.Delete(ctx, 1, "foo")
		require.NoError(t, err)
		assert.True(t, deleted)

		exists, err := repo.ExistsByName(ctx, "foo")
		require.NoError(t, err)
		assert.True(t, exists)

		deleted, err = repo.Delete(ctx, 2, "foo")
		require.NoError(t, err)
		assert.True(t, deleted)

		exists, err = repo.ExistsByName(ctx, "foo")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("delete missing", func(t *testing.T) {
		seedGuilds(t, 1)

		deleted, err := repo.Delete(ctx, 1, "ghost")
		require.NoError(t, err)
		assert.False(t, deleted)

		cmd, err := repo.GetByGuildAndName(ctx, 1, "ghost")
		require.NoError(t, err)
		assert.Nil(t, cmd)
	})

	t.Run("unknown guild violates foreign key", func(t *testing.T) {
		seedGuilds(t)

		_, err := repo.Upsert(ctx, testutil.CreateTestCustomCommand(99, "foo", "bar"))
		assert.Error(t, err)
	})
}
