package botadmin_test

import (
	"testing"

	"aoba/bot/command"
	"aoba/bot/command/commandtest"
	"aoba/bot/features/botadmin"
	"aoba/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type botAdminFixture struct {
	h         *commandtest.Harness
	guilds    *service.MockGuildService
	shutdowns int
}

func newBotAdminFixture(t *testing.T) *botAdminFixture {
	f := &botAdminFixture{
		h:      commandtest.NewHarness(),
		guilds: new(service.MockGuildService),
	}
	feature := botadmin.New(f.guilds, func() { f.shutdowns++ })
	require.NoError(t, f.h.Register(feature.Commands()...))
	f.h.Gateway.GuildList = []command.GuildInfo{
		{ID: "1", Name: "Alpha"},
		{ID: "2", Name: "Beta"},
		{ID: "3", Name: "Gamma"},
	}
	return f
}

func TestShutdown(t *testing.T) {
	f := newBotAdminFixture(t)

	f.h.Invoke("5", "!shutdown")
	assert.Equal(t, 0, f.shutdowns)
	assert.Empty(t, f.h.Gateway.Messages())

	f.h.Invoke(commandtest.OwnerID, "!shutdown")
	assert.Equal(t, 1, f.shutdowns)
	assert.Equal(t, []string{"Shutting down, bye admin!"}, f.h.Gateway.Messages())
}

func TestGuilds(t *testing.T) {
	f := newBotAdminFixture(t)

	f.h.Invoke(commandtest.OwnerID, "!guilds")
	f.h.Invoke(commandtest.OwnerID, "!servers")

	want := "**Guilds:**\n > Alpha, Beta, Gamma"
	assert.Equal(t, []string{want, want}, f.h.Gateway.Messages())
}

func TestStatus(t *testing.T) {
	f := newBotAdminFixture(t)

	f.h.Invoke(commandtest.OwnerID, "!status")
	f.h.Invoke(commandtest.OwnerID, "!status playing with fire")
	f.h.Invoke(commandtest.OwnerID, "!status")

	assert.Equal(t, []string{
		"I don't have a status right now.",
		"My status was changed to `playing with fire`!",
		"playing with fire",
	}, f.h.Gateway.Messages())
	assert.Equal(t, "playing with fire", f.h.Gateway.Status())
}

func TestAnnounce(t *testing.T) {
	f := newBotAdminFixture(t)
	f.guilds.On("AnnouncementChannels", mock.Anything).Return(map[int64]int64{1: 100, 3: 300}, nil)

	f.h.Invoke(commandtest.OwnerID, "!announce new release")

	require.Len(t, f.h.Gateway.Sent, 4)
	assert.Equal(t, "Announcing `new release` in 3 servers.", f.h.Gateway.Sent[0].Content)
	assert.Equal(t, "Announcement channel was not found for guilds:\n > Beta", f.h.Gateway.Sent[1].Content)
	assert.Equal(t, commandtest.SentMessage{ID: "m3", ChannelID: "100", Content: "new release"}, f.h.Gateway.Sent[2])
	assert.Equal(t, commandtest.SentMessage{ID: "m4", ChannelID: "300", Content: "new release"}, f.h.Gateway.Sent[3])
	f.guilds.AssertExpectations(t)
}

func TestAnnounce_RequiresText(t *testing.T) {
	f := newBotAdminFixture(t)

	f.h.Invoke(commandtest.OwnerID, "!announce")

	assert.Equal(t, []string{"Usage: `!announce <text...>`"}, f.h.Gateway.Messages())
	f.guilds.AssertNotCalled(t, "AnnouncementChannels", mock.Anything)
}
