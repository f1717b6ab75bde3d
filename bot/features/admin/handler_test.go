package admin_test

import (
	"errors"
	"fmt"
	"testing"

	"aoba/bot/command"
	"aoba/bot/command/commandtest"
	"aoba/bot/features/admin"
	"aoba/models"
	"aoba/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const adminID = "5"

type adminFixture struct {
	h        *commandtest.Harness
	guilds   *service.MockGuildService
	commands *service.MockCustomCommandService
}

func newAdminFixture(t *testing.T) *adminFixture {
	f := &adminFixture{
		h:        commandtest.NewHarness(),
		guilds:   new(service.MockGuildService),
		commands: new(service.MockCustomCommandService),
	}
	feature := admin.New(f.h.Registry, f.guilds, f.commands)
	require.NoError(t, f.h.Register(feature.Commands()...))
	require.NoError(t, f.h.Register(&command.Command{Name: "help", Handler: func(*command.Context) error { return nil }}))
	f.h.Gateway.SetAdmin(adminID)
	return f
}

func (f *adminFixture) assertExpectations(t *testing.T) {
	f.guilds.AssertExpectations(t)
	f.commands.AssertExpectations(t)
}

func TestCustomCommand_AddRegistersAndReplies(t *testing.T) {
	f := newAdminFixture(t)
	f.commands.On("Add", mock.Anything, int64(1), int64(5), "foo", "hello world").
		Return(&models.CustomCommand{GuildID: 1, Name: "foo", Text: "hello world"}, nil)
	f.commands.On("GetText", mock.Anything, int64(1), "foo").Return("hello world", nil)

	f.h.Invoke(adminID, `!custom_cmd add foo "hello world"`)
	f.h.Invoke("6", "!foo")

	assert.Equal(t, []string{"Command `foo` was successfully added!", "hello world"}, f.h.Gateway.Messages())
	cmd, ok := f.h.Registry.Resolve("foo")
	require.True(t, ok)
	assert.Equal(t, command.Custom, cmd.Kind)
	f.assertExpectations(t)
}

func TestCustomCommand_AddOverBuiltInLeavesNoRecord(t *testing.T) {
	f := newAdminFixture(t)

	f.h.Invoke(adminID, "!custom_cmd add help text")

	assert.Equal(t, []string{"A built-in command called `help` already exists!"}, f.h.Gateway.Messages())
	f.commands.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cmd, _ := f.h.Registry.Resolve("help")
	assert.Equal(t, command.BuiltIn, cmd.Kind)
}

func TestCustomCommand_AddPersistenceFailureDoesNotRegister(t *testing.T) {
	f := newAdminFixture(t)
	f.commands.On("Add", mock.Anything, int64(1), int64(5), "foo", "bar").
		Return(nil, fmt.Errorf("insert: %w", service.ErrPersistenceUnavailable))

	f.h.Invoke(adminID, "!custom_cmd add foo bar")

	assert.Equal(t, []string{command.GenericErrorReply}, f.h.Gateway.Messages())
	_, ok := f.h.Registry.Resolve("foo")
	assert.False(t, ok)
	f.assertExpectations(t)
}

func TestCustomCommand_DeleteUnregistersWhenUnused(t *testing.T) {
	tests := []struct {
		name       string
		stillUsed  bool
		registered bool
	}{
		{"last guild using the name", false, false},
		{"another guild still uses the name", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAdminFixture(t)
			require.NoError(t, f.h.Registry.Register(command.NewCustomCommand("foo", f.commands)))
			f.commands.On("Delete", mock.Anything, int64(1), int64(5), "foo").Return(tt.stillUsed, nil)

			f.h.Invoke(adminID, "!custom_cmd del foo")

			assert.Equal(t, []string{"Command `foo` was successfully deleted!"}, f.h.Gateway.Messages())
			_, ok := f.h.Registry.Resolve("foo")
			assert.Equal(t, tt.registered, ok)
			f.assertExpectations(t)
		})
	}
}

func TestCustomCommand_DeleteMissing(t *testing.T) {
	f := newAdminFixture(t)
	f.commands.On("Delete", mock.Anything, int64(1), int64(5), "nope").
		Return(false, service.NewUserError(service.ErrNotFound, "Command not found!"))

	f.h.Invoke(adminID, "!custom_cmd del nope")

	assert.Equal(t, []string{"Command not found!"}, f.h.Gateway.Messages())
	f.assertExpectations(t)
}

func TestCustomCommand_InvalidSubcommand(t *testing.T) {
	f := newAdminFixture(t)

	f.h.Invoke(adminID, "!custom_cmd")
	f.h.Invoke(adminID, "!custom_cmd rename foo")
	f.h.Invoke(adminID, "!custom_cmd add foo")

	assert.Equal(t, []string{
		"Invalid custom command passed.",
		"Invalid custom command passed.",
		"Usage: `!custom_cmd <add|del> <name> [text]`",
	}, f.h.Gateway.Messages())
}

func TestAdminCommands_RequireAdministrator(t *testing.T) {
	f := newAdminFixture(t)

	for _, content := range []string{"!custom_cmd add foo bar", "!prefix ?", "!kick <@7>", "!purge"} {
		assert.True(t, f.h.Invoke("6", content))
	}

	assert.Empty(t, f.h.Gateway.Messages())
	assert.Empty(t, f.h.Gateway.Kicked)
	assert.Empty(t, f.h.Gateway.Purged)
	f.assertExpectations(t)
}

func TestPrefix(t *testing.T) {
	f := newAdminFixture(t)
	f.guilds.On("SetPrefix", mock.Anything, int64(1), "?").Return(nil)

	f.h.Invoke(adminID, "!prefix ?")

	assert.Equal(t, []string{"Command prefix changed to `?`"}, f.h.Gateway.Messages())
	f.assertExpectations(t)
}

func TestAnnouncementChannel(t *testing.T) {
	f := newAdminFixture(t)
	channelID := int64(42)
	f.guilds.On("SetAnnouncementChannel", mock.Anything, int64(1), &channelID).Return(nil).Once()
	f.guilds.On("SetAnnouncementChannel", mock.Anything, int64(1), (*int64)(nil)).Return(nil).Once()

	f.h.Invoke(adminID, "!announcement_channel <#42>")
	f.h.Invoke(adminID, "!announcement_channel")
	f.h.Invoke(adminID, "!announcement_channel general")

	assert.Equal(t, []string{
		"Announcement channel set to <#42>.",
		"Announcement channel cleared.",
		`Channel "general" not found.`,
	}, f.h.Gateway.Messages())
	f.assertExpectations(t)
}

func TestModeration(t *testing.T) {
	f := newAdminFixture(t)

	f.h.Invoke(adminID, "!kick <@7>")
	f.h.Invoke(adminID, "!ban <@!8>")
	f.h.Invoke(adminID, "!unban 9")
	f.h.Invoke(adminID, "!kick someone")

	assert.Equal(t, []string{"7"}, f.h.Gateway.Kicked)
	assert.Equal(t, []string{"8"}, f.h.Gateway.Banned)
	assert.Equal(t, []string{"9"}, f.h.Gateway.Unbanned)
	assert.Equal(t, []string{`User "someone" not found.`}, f.h.Gateway.Messages())
}

func TestPurge(t *testing.T) {
	f := newAdminFixture(t)

	f.h.Invoke(adminID, "!purge")
	assert.Equal(t, 100, f.h.Gateway.Purged[commandtest.ChannelID])

	f.h.Invoke(adminID, "!purge 5")
	assert.Equal(t, 5, f.h.Gateway.Purged[commandtest.ChannelID])

	f.h.Invoke(adminID, "!purge -1")
	assert.Equal(t, []string{"The limit must be a positive number!"}, f.h.Gateway.Messages())
}

func TestCustomCommand_SendFailureIsLogged(t *testing.T) {
	f := newAdminFixture(t)
	f.h.Gateway.SendErr = errors.New("gateway down")

	assert.NotPanics(t, func() {
		f.h.Invoke(adminID, "!custom_cmd")
	})
}
