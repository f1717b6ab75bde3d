package economy

import (
	"aoba/bot/command"
	"aoba/service"

	"github.com/google/uuid"
)

// Category groups the economy commands in help output
const Category = "Economy"

// Feature handles balances and reaction bets
type Feature struct {
	economyService service.EconomyService
	reactions      *command.ReactionWaiter
	newBetID       func() string
}

// New creates the economy feature. Bets wait for reactions through reactions.
func New(economyService service.EconomyService, reactions *command.ReactionWaiter) *Feature {
	return &Feature{
		economyService: economyService,
		reactions:      reactions,
		newBetID:       uuid.NewString,
	}
}

// Commands returns the economy commands
func (f *Feature) Commands() []*command.Command {
	return []*command.Command{
		{
			Name:     "balance",
			Usage:    "[@user]",
			Help:     "Get the bank balance of an user",
			Category: Category,
			Handler:  f.handleBalance,
		},
		{
			Name:     "deposit",
			Usage:    "<value> [@user]",
			Help:     "Deposit value to an user's balance",
			Category: Category,
			Checks:   []command.Check{command.AuthorIsOwner},
			Handler:  f.handleDeposit,
		},
		{
			Name:     "withdraw",
			Usage:    "<value> [@user]",
			Help:     "Withdraw a value from an user's account",
			Category: Category,
			Checks:   []command.Check{command.AuthorIsOwner},
			Handler:  f.handleWithdraw,
		},
		{
			Name:     "bet",
			Usage:    "<name> <option1,option2,...> [timeout_minutes=5]",
			Help:     "Allows an admin to create a bet for users",
			Category: Category,
			Checks:   []command.Check{command.AuthorIsAdmin},
			Handler:  f.handleBet,
		},
	}
}
