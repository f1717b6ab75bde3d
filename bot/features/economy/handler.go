package economy

import (
	"context"
	"errors"
	"strconv"

	"aoba/bot/command"
	"aoba/bot/common"
	"aoba/models"
	"aoba/service"

	log "github.com/sirupsen/logrus"
)

// targetUser returns the user mentioned at args[i], or the author when absent
func targetUser(ctx *command.Context, i int) (string, error) {
	arg := ctx.Arg(i)
	if arg == "" {
		return ctx.Message.AuthorID, nil
	}

	userID, err := command.ParseMention(arg)
	if err != nil {
		return "", service.NewUserError(service.ErrInvalidArgument, "User %q not found.", arg)
	}
	return userID, nil
}

func (f *Feature) handleBalance(ctx *command.Context) error {
	userID, err := targetUser(ctx, 0)
	if err != nil {
		return err
	}
	name := ctx.Gateway.DisplayName(ctx.Message.GuildID, userID)

	if userID != ctx.Message.AuthorID && !command.AuthorIsAdmin(ctx) {
		return ctx.Reply("You are not allowed to check %s's balance!", name)
	}

	balance, err := f.economyService.GetBalance(ctx, command.Snowflake(userID))
	if errors.Is(err, service.ErrNotFound) {
		return ctx.Reply("No balance found for %s!", name)
	}
	if err != nil {
		return err
	}

	return ctx.Reply("Balance for %s is %s!", name, common.FormatBalance(balance.Balance))
}

func (f *Feature) handleDeposit(ctx *command.Context) error {
	return f.adjustBalance(ctx, "Deposited %d for %s. New balance: %s", f.economyService.Deposit)
}

func (f *Feature) handleWithdraw(ctx *command.Context) error {
	return f.adjustBalance(ctx, "Withdrew %d from %s. New balance: %s", f.economyService.Withdraw)
}

func (f *Feature) adjustBalance(ctx *command.Context, reply string, apply func(ctx context.Context, userID, value int64) (*models.UserBalance, error)) error {
	if len(ctx.Args) == 0 {
		return ctx.UsageError()
	}

	value, err := strconv.ParseInt(ctx.Arg(0), 10, 64)
	if err != nil {
		return service.NewUserError(service.ErrInvalidArgument, "The value must be a whole number!")
	}

	userID, err := targetUser(ctx, 1)
	if err != nil {
		return err
	}

	balance, err := apply(ctx, command.Snowflake(userID), value)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"userID":  userID,
		"value":   value,
		"balance": balance.Balance,
	}).Info("Balance adjusted")

	name := ctx.Gateway.DisplayName(ctx.Message.GuildID, userID)
	return ctx.Reply(reply, value, name, common.FormatBalance(balance.Balance))
}
