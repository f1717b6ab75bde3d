package service

import (
	"context"
	"fmt"

	"aoba/events"
	"aoba/models"

	log "github.com/sirupsen/logrus"
)

// economyService implements the EconomyService interface
type economyService struct {
	uowFactory UnitOfWorkFactory
}

// NewEconomyService creates a new economy service
func NewEconomyService(uowFactory UnitOfWorkFactory) EconomyService {
	return &economyService{
		uowFactory: uowFactory,
	}
}

// GetBalance returns the user's balance or ErrNotFound if none was ever recorded
func (s *economyService) GetBalance(ctx context.Context, userID int64) (*models.UserBalance, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	balance, err := uow.UserBalanceRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, storageError("failed to get balance", err)
	}
	if balance == nil {
		return nil, fmt.Errorf("balance of user %d: %w", userID, ErrNotFound)
	}
	return balance, nil
}

// Deposit adds value to the user's balance
func (s *economyService) Deposit(ctx context.Context, userID int64, value int64) (*models.UserBalance, error) {
	if value <= 0 {
		return nil, NewUserError(ErrInvalidArgument, "The value must be a positive number!")
	}
	return s.adjust(ctx, userID, value, BalanceReasonDeposit)
}

// Withdraw subtracts value from the user's balance. A user without a balance starts from zero.
func (s *economyService) Withdraw(ctx context.Context, userID int64, value int64) (*models.UserBalance, error) {
	if value <= 0 {
		return nil, NewUserError(ErrInvalidArgument, "The value must be a positive number!")
	}
	return s.adjust(ctx, userID, -value, BalanceReasonWithdraw)
}

func (s *economyService) adjust(ctx context.Context, userID, delta int64, reason string) (*models.UserBalance, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	saved, change, err := applyBalanceChange(ctx, uow, userID, delta, reason)
	if err != nil {
		return nil, storageError("failed to update balance", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, storageError("failed to commit transaction", err)
	}

	log.WithFields(log.Fields{
		"userID":     userID,
		"reason":     reason,
		"oldBalance": change.OldBalance,
		"newBalance": change.NewBalance,
	}).Info("Balance updated")

	return saved, nil
}

// SettleBet charges every loser the stake and shares the pot evenly between the winners.
// A user listed more than once is charged or rewarded once per entry. Without winners
// no balance is touched.
func (s *economyService) SettleBet(ctx context.Context, guildID int64, betID, name string, winnerIDs, loserIDs []int64) (*models.BetOutcome, error) {
	outcome := &models.BetOutcome{
		BetID:     betID,
		Name:      name,
		WinnerIDs: winnerIDs,
		LoserIDs:  loserIDs,
	}

	if len(winnerIDs) == 0 {
		log.WithFields(log.Fields{
			"betID":  betID,
			"name":   name,
			"losers": len(loserIDs),
		}).Info("Bet has no winners, nothing to settle")
		return outcome, nil
	}

	outcome.TotalLost = models.BetStake * int64(len(loserIDs))
	outcome.RewardPerWinner = outcome.TotalLost / int64(len(winnerIDs))

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storageError("failed to begin transaction", err)
	}
	defer uow.Rollback()

	if outcome.RewardPerWinner > 0 {
		for _, winnerID := range winnerIDs {
			if _, _, err := applyBalanceChange(ctx, uow, winnerID, outcome.RewardPerWinner, BalanceReasonBetWin); err != nil {
				return nil, storageError("failed to reward winner", err)
			}
		}
	}

	for _, loserID := range loserIDs {
		if _, _, err := applyBalanceChange(ctx, uow, loserID, -models.BetStake, BalanceReasonBetLoss); err != nil {
			return nil, storageError("failed to charge loser", err)
		}
	}

	uow.EventBus().Publish(events.BetSettledEvent{
		BetID:           betID,
		GuildID:         guildID,
		Name:            name,
		Winners:         len(winnerIDs),
		Losers:          len(loserIDs),
		RewardPerWinner: outcome.RewardPerWinner,
	})

	if err := uow.Commit(); err != nil {
		return nil, storageError("failed to commit transaction", err)
	}

	log.WithFields(log.Fields{
		"betID":           betID,
		"guildID":         guildID,
		"name":            name,
		"winners":         len(winnerIDs),
		"losers":          len(loserIDs),
		"rewardPerWinner": outcome.RewardPerWinner,
	}).Info("Bet settled")

	return outcome, nil
}
