package service

import (
	"context"
	"fmt"
	"strings"

	"aoba/events"
	"aoba/models"

	log "github.com/sirupsen/logrus"
)

// maxPrefixLength keeps prefixes short enough to be typed
const maxPrefixLength = 10

// guildService implements the GuildService interface
type guildService struct {
	uowFactory    UnitOfWorkFactory
	defaultPrefix string
}

// NewGuildService creates a new guild service
func NewGuildService(uowFactory UnitOfWorkFactory, defaultPrefix string) GuildService {
	if defaultPrefix == "" {
		defaultPrefix = models.DefaultCommandPrefix
	}
	return &guildService{
		uowFactory:    uowFactory,
		defaultPrefix: defaultPrefix,
	}
}

// Reconcile inserts a default record for every connected guild that is not persisted yet.
// It reads the guild table once and inserts the set difference.
func (s *guildService) Reconcile(ctx context.Context, connectedGuildIDs []int64) ([]int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	persisted, err := uow.GuildRepository().GetAll(ctx)
	if err != nil {
		return nil, storageError("failed to list guilds", err)
	}

	known := make(map[int64]struct{}, len(persisted))
	for _, g := range persisted {
		known[g.GuildID] = struct{}{}
	}

	var added []int64
	seen := make(map[int64]struct{}, len(connectedGuildIDs))
	for _, guildID := range connectedGuildIDs {
		if _, ok := seen[guildID]; ok {
			continue
		}
		seen[guildID] = struct{}{}
		if _, ok := known[guildID]; ok {
			continue
		}

		guild := models.NewGuild(guildID)
		guild.CommandPrefix = s.defaultPrefix
		created, err := uow.GuildRepository().Create(ctx, guild)
		if err != nil {
			return nil, storageError(fmt.Sprintf("failed to create guild %d", guildID), err)
		}
		if created {
			log.WithField("guildID", guildID).Debug("Added database record for guild")
			added = append(added, guildID)
		}
	}

	if len(added) > 0 {
		uow.EventBus().Publish(events.GuildsReconciledEvent{AddedGuildIDs: added})
	}

	if err := uow.Commit(); err != nil {
		return nil, storageError("failed to commit transaction", err)
	}

	log.WithField("count", len(added)).Info("Reconciled guild records")
	return added, nil
}

// EnsureGuild creates the default record for a guild joined while running
func (s *guildService) EnsureGuild(ctx context.Context, guildID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, storageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	guild := models.NewGuild(guildID)
	guild.CommandPrefix = s.defaultPrefix
	created, err := uow.GuildRepository().Create(ctx, guild)
	if err != nil {
		return false, storageError(fmt.Sprintf("failed to create guild %d", guildID), err)
	}

	if created {
		uow.EventBus().Publish(events.GuildsReconciledEvent{AddedGuildIDs: []int64{guildID}})
	}

	if err := uow.Commit(); err != nil {
		return false, storageError("failed to commit transaction", err)
	}

	return created, nil
}

// GetPrefix returns the guild's prefix, falling back to the default for unknown guilds
func (s *guildService) GetPrefix(ctx context.Context, guildID int64) (string, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", storageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	guild, err := uow.GuildRepository().GetByID(ctx, guildID)
	if err != nil {
		return "", storageError("failed to get guild", err)
	}
	if guild == nil {
		return s.defaultPrefix, nil
	}
	return guild.CommandPrefix, nil
}

// SetPrefix changes the guild's command prefix
func (s *guildService) SetPrefix(ctx context.Context, guildID int64, prefix string) error {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || strings.ContainsAny(prefix, " \t\n") {
		return NewUserError(ErrInvalidArgument, "The prefix can't be empty or contain spaces!")
	}
	if len([]rune(prefix)) > maxPrefixLength {
		return NewUserError(ErrInvalidArgument, "The prefix can't be longer than %d characters!", maxPrefixLength)
	}

	return s.updateGuild(ctx, guildID, func(g *models.Guild) {
		g.CommandPrefix = prefix
	})
}

// SetAnnouncementChannel sets or clears the announcement channel
func (s *guildService) SetAnnouncementChannel(ctx context.Context, guildID int64, channelID *int64) error {
	return s.updateGuild(ctx, guildID, func(g *models.Guild) {
		g.AnnouncementChannelID = channelID
	})
}

// AnnouncementChannels maps guild IDs to their configured announcement channel
func (s *guildService) AnnouncementChannels(ctx context.Context) (map[int64]int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	guilds, err := uow.GuildRepository().GetAll(ctx)
	if err != nil {
		return nil, storageError("failed to list guilds", err)
	}

	channels := make(map[int64]int64)
	for _, g := range guilds {
		if g.HasAnnouncementChannel() {
			channels[g.GuildID] = *g.AnnouncementChannelID
		}
	}
	return channels, nil
}

func (s *guildService) updateGuild(ctx context.Context, guildID int64, mutate func(*models.Guild)) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return storageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	guild, err := uow.GuildRepository().GetByID(ctx, guildID)
	if err != nil {
		return storageError("failed to get guild", err)
	}
	if guild == nil {
		return missingGuildError(guildID)
	}

	mutate(guild)

	if err := uow.GuildRepository().Update(ctx, guild); err != nil {
		return storageError("failed to update guild", err)
	}

	if err := uow.Commit(); err != nil {
		return storageError("failed to commit transaction", err)
	}

	return nil
}

func missingGuildError(guildID int64) error {
	log.WithField("guildID", guildID).Warn("Guild has no database record")
	return NewUserError(ErrNotFound, "Error trying to get guild id record, check the logs for more information")
}
