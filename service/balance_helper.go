package service

import (
	"context"
	"fmt"

	"aoba/events"
	"aoba/models"
)

// Reasons attached to balance change events
const (
	BalanceReasonDeposit  = "deposit"
	BalanceReasonWithdraw = "withdraw"
	BalanceReasonBetWin   = "bet_win"
	BalanceReasonBetLoss  = "bet_loss"
)

// applyBalanceChange adds delta to the user's balance inside the unit of work and
// publishes the change. This is the single entry point for balance mutations.
func applyBalanceChange(ctx context.Context, uow UnitOfWork, userID, delta int64, reason string) (*models.UserBalance, models.BalanceChange, error) {
	current, err := uow.UserBalanceRepository().GetForUpdate(ctx, userID)
	if err != nil {
		return nil, models.BalanceChange{}, fmt.Errorf("failed to get balance of user %d: %w", userID, err)
	}

	change := models.BalanceChange{
		UserID:     userID,
		OldBalance: current.Balance,
		NewBalance: current.Balance + delta,
	}
	current.Balance = change.NewBalance

	saved, err := uow.UserBalanceRepository().Upsert(ctx, current)
	if err != nil {
		return nil, models.BalanceChange{}, fmt.Errorf("failed to save balance of user %d: %w", userID, err)
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:     userID,
		OldBalance: change.OldBalance,
		NewBalance: change.NewBalance,
		Reason:     reason,
	})

	return saved, change, nil
}
