package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"aoba/events"
	"aoba/models"

	log "github.com/sirupsen/logrus"
)

const (
	maxCustomCommandNameLength = 32
	maxCustomCommandTextLength = 2000
)

// customCommandService implements the CustomCommandService interface
type customCommandService struct {
	uowFactory UnitOfWorkFactory
}

// NewCustomCommandService creates a new custom command service
func NewCustomCommandService(uowFactory UnitOfWorkFactory) CustomCommandService {
	return &customCommandService{
		uowFactory: uowFactory,
	}
}

// ListAll returns every persisted custom command
func (s *customCommandService) ListAll(ctx context.Context) ([]*models.CustomCommand, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	cmds, err := uow.CustomCommandRepository().GetAll(ctx)
	if err != nil {
		return nil, storageError("failed to list custom commands", err)
	}
	return cmds, nil
}

// Add creates the command for the guild. A command with the same name in the
// same guild has its text replaced.
func (s *customCommandService) Add(ctx context.Context, guildID, authorID int64, name, text string) (*models.CustomCommand, error) {
	if err := validateCustomCommand(name, text); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	guild, err := uow.GuildRepository().GetByID(ctx, guildID)
	if err != nil {
		return nil, storageError("failed to get guild", err)
	}
	if guild == nil {
		return nil, missingGuildError(guildID)
	}

	saved, err := uow.CustomCommandRepository().Upsert(ctx, &models.CustomCommand{
		GuildID: guildID,
		Name:    name,
		Text:    text,
	})
	if err != nil {
		return nil, storageError("failed to save custom command", err)
	}

	uow.EventBus().Publish(events.CustomCommandAddedEvent{
		GuildID:  guildID,
		Name:     name,
		AuthorID: authorID,
	})

	if err := uow.Commit(); err != nil {
		return nil, storageError("failed to commit transaction", err)
	}

	log.WithFields(log.Fields{
		"guildID": guildID,
		"name":    name,
		"author":  authorID,
	}).Info("Custom command saved")

	return saved, nil
}

// Delete removes the command from the guild. The returned flag reports whether
// some other guild still defines a command with the same name.
func (s *customCommandService) Delete(ctx context.Context, guildID, authorID int64, name string) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, storageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	deleted, err := uow.CustomCommandRepository().Delete(ctx, guildID, name)
	if err != nil {
		return false, storageError("failed to delete custom command", err)
	}
	if !deleted {
		return false, NewUserError(ErrNotFound, "Command not found!")
	}

	stillUsed, err := uow.CustomCommandRepository().ExistsByName(ctx, name)
	if err != nil {
		return false, storageError("failed to check custom command usage", err)
	}

	uow.EventBus().Publish(events.CustomCommandDeletedEvent{
		GuildID:  guildID,
		Name:     name,
		AuthorID: authorID,
	})

	if err := uow.Commit(); err != nil {
		return false, storageError("failed to commit transaction", err)
	}

	log.WithFields(log.Fields{
		"guildID":   guildID,
		"name":      name,
		"author":    authorID,
		"stillUsed": stillUsed,
	}).Info("Custom command deleted")

	return stillUsed, nil
}

// GetText reads the current text of a command. It is called on every
// invocation so edits are visible without re-registering.
func (s *customCommandService) GetText(ctx context.Context, guildID int64, name string) (string, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", storageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	cmd, err := uow.CustomCommandRepository().GetByGuildAndName(ctx, guildID, name)
	if err != nil {
		return "", storageError("failed to get custom command", err)
	}
	if cmd == nil {
		return "", NewUserError(ErrNotFound, "Custom command not found!")
	}
	return cmd.Text, nil
}

func validateCustomCommand(name, text string) error {
	if name == "" || strings.ContainsAny(name, " \t\n") {
		return NewUserError(ErrInvalidArgument, "A command name can't be empty or contain spaces!")
	}
	if utf8.RuneCountInString(name) > maxCustomCommandNameLength {
		return NewUserError(ErrInvalidArgument, "A command name can't be longer than %d characters!", maxCustomCommandNameLength)
	}
	if strings.TrimSpace(text) == "" {
		return NewUserError(ErrInvalidArgument, "A command needs some text to reply with!")
	}
	if utf8.RuneCountInString(text) > maxCustomCommandTextLength {
		return NewUserError(ErrInvalidArgument, "A command text can't be longer than %d characters!", maxCustomCommandTextLength)
	}
	return nil
}
