package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"aoba/events"
	"aoba/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCustomCommandService_Add(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := NewCustomCommandService(m.factory)

	saved := &models.CustomCommand{ID: 1, GuildID: 10, Name: "hello", Text: "world"}

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.guildRepo.On("GetByID", ctx, int64(10)).Return(&models.Guild{GuildID: 10}, nil)
	m.commandRepo.On("Upsert", ctx, mock.MatchedBy(func(c *models.CustomCommand) bool {
		return c.GuildID == 10 && c.Name == "hello" && c.Text == "world"
	})).Return(saved, nil)
	m.publisher.On("Publish", events.CustomCommandAddedEvent{GuildID: 10, Name: "hello", AuthorID: 42}).Return()

	cmd, err := svc.Add(ctx, 10, 42, "hello", "world")

	require.NoError(t, err)
	assert.Equal(t, saved, cmd)
	m.assertExpectations(t)
}

func TestCustomCommandService_Add_UnknownGuild(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := NewCustomCommandService(m.factory)

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.guildRepo.On("GetByID", ctx, int64(10)).Return(nil, nil)

	cmd, err := svc.Add(ctx, 10, 42, "hello", "world")

	assert.Nil(t, cmd)
	assert.ErrorIs(t, err, ErrNotFound)
	m.commandRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit")
	m.assertExpectations(t)
}

func TestCustomCommandService_Add_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cmdName string
		text    string
	}{
		{"empty name", "", "text"},
		{"name with space", "two words", "text"},
		{"name too long", strings.Repeat("a", maxCustomCommandNameLength+1), "text"},
		{"blank text", "name", "   "},
		{"text too long", "name", strings.Repeat("x", maxCustomCommandTextLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newServiceMocks()
			svc := NewCustomCommandService(m.factory)

			_, err := svc.Add(context.Background(), 1, 2, tt.cmdName, tt.text)

			assert.ErrorIs(t, err, ErrInvalidArgument)
			m.factory.AssertNotCalled(t, "Create")
		})
	}
}

func TestCustomCommandService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("last guild using the name", func(t *testing.T) {
		m := newServiceMocks()
		svc := NewCustomCommandService(m.factory)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.commandRepo.On("Delete", ctx, int64(10), "hello").Return(true, nil)
		m.commandRepo.On("ExistsByName", ctx, "hello").Return(false, nil)
		m.publisher.On("Publish", events.CustomCommandDeletedEvent{GuildID: 10, Name: "hello", AuthorID: 42}).Return()

		stillUsed, err := svc.Delete(ctx, 10, 42, "hello")

		require.NoError(t, err)
		assert.False(t, stillUsed)
		m.assertExpectations(t)
	})

	t.Run("another guild still has it", func(t *testing.T) {
		m := newServiceMocks()
		svc := NewCustomCommandService(m.factory)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Commit").Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.commandRepo.On("Delete", ctx, int64(10), "hello").Return(true, nil)
		m.commandRepo.On("ExistsByName", ctx, "hello").Return(true, nil)
		m.publisher.On("Publish", mock.AnythingOfType("events.CustomCommandDeletedEvent")).Return()

		stillUsed, err := svc.Delete(ctx, 10, 42, "hello")

		require.NoError(t, err)
		assert.True(t, stillUsed)
		m.assertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		m := newServiceMocks()
		svc := NewCustomCommandService(m.factory)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.commandRepo.On("Delete", ctx, int64(10), "nope").Return(false, nil)

		_, err := svc.Delete(ctx, 10, 42, "nope")

		assert.ErrorIs(t, err, ErrNotFound)
		var userErr *UserError
		require.ErrorAs(t, err, &userErr)
		assert.Equal(t, "Command not found!", userErr.UserMessage())
		m.publisher.AssertNotCalled(t, "Publish", mock.Anything)
		m.assertExpectations(t)
	})
}

func TestCustomCommandService_GetText(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		m := newServiceMocks()
		svc := NewCustomCommandService(m.factory)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.commandRepo.On("GetByGuildAndName", ctx, int64(1), "foo").
			Return(&models.CustomCommand{GuildID: 1, Name: "foo", Text: "bar"}, nil)

		text, err := svc.GetText(ctx, 1, "foo")

		require.NoError(t, err)
		assert.Equal(t, "bar", text)
		m.assertExpectations(t)
	})

	t.Run("record vanished", func(t *testing.T) {
		m := newServiceMocks()
		svc := NewCustomCommandService(m.factory)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.commandRepo.On("GetByGuildAndName", ctx, int64(1), "foo").Return(nil, nil)

		_, err := svc.GetText(ctx, 1, "foo")

		var userErr *UserError
		require.ErrorAs(t, err, &userErr)
		assert.Equal(t, "Custom command not found!", userErr.UserMessage())
		assert.True(t, isNotFound(err))
		m.assertExpectations(t)
	})

	t.Run("storage error", func(t *testing.T) {
		m := newServiceMocks()
		svc := NewCustomCommandService(m.factory)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.commandRepo.On("GetByGuildAndName", ctx, int64(1), "foo").Return(nil, errors.New("database error"))

		_, err := svc.GetText(ctx, 1, "foo")

		assert.Error(t, err)
		assert.False(t, isNotFound(err))
		m.assertExpectations(t)
	})
}
