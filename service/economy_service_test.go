package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"aoba/events"
	"aoba/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeBalances backs a MockUserBalanceRepository with an in-memory map so
// multi-step flows can be asserted on final state.
type fakeBalances map[int64]int64

func (f fakeBalances) wire(repo *MockUserBalanceRepository) {
	repo.On("GetForUpdate", mock.Anything, mock.AnythingOfType("int64")).Return(
		func(_ context.Context, userID int64) *models.UserBalance {
			return &models.UserBalance{UserID: userID, Balance: f[userID]}
		},
		nil,
	)
	repo.On("Upsert", mock.Anything, mock.AnythingOfType("*models.UserBalance")).Return(
		func(_ context.Context, b *models.UserBalance) *models.UserBalance {
			f[b.UserID] = b.Balance
			saved := *b
			saved.CreatedAt = time.Now()
			return &saved
		},
		nil,
	)
}

func TestEconomyService_DepositThenWithdraw(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := NewEconomyService(m.factory)

	balances := fakeBalances{}
	balances.wire(m.balanceRepo)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.publisher.On("Publish", events.BalanceChangeEvent{UserID: 1, OldBalance: 0, NewBalance: 50, Reason: BalanceReasonDeposit}).Return().Once()
	m.publisher.On("Publish", events.BalanceChangeEvent{UserID: 1, OldBalance: 50, NewBalance: 30, Reason: BalanceReasonWithdraw}).Return().Once()
	m.publisher.On("Publish", events.BalanceChangeEvent{UserID: 1, OldBalance: 30, NewBalance: -70, Reason: BalanceReasonWithdraw}).Return().Once()

	got, err := svc.Deposit(ctx, 1, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got.Balance)

	got, err = svc.Withdraw(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(30), got.Balance)

	got, err = svc.Withdraw(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(-70), got.Balance)

	m.assertExpectations(t)
}

func TestEconomyService_WithdrawWithoutBalanceGoesNegative(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := NewEconomyService(m.factory)

	balances := fakeBalances{}
	balances.wire(m.balanceRepo)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()

	got, err := svc.Withdraw(ctx, 9, 40)

	require.NoError(t, err)
	assert.Equal(t, int64(-40), got.Balance)
	assert.Equal(t, int64(-40), balances[9])
}

func TestEconomyService_RejectsNonPositiveValues(t *testing.T) {
	m := newServiceMocks()
	svc := NewEconomyService(m.factory)

	_, err := svc.Deposit(context.Background(), 1, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Withdraw(context.Background(), 1, -5)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	m.factory.AssertNotCalled(t, "Create")
}

func TestEconomyService_GetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		m := newServiceMocks()
		svc := NewEconomyService(m.factory)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.balanceRepo.On("GetByUserID", ctx, int64(1)).Return(nil, nil)

		balance, err := svc.GetBalance(ctx, 1)

		assert.Nil(t, balance)
		assert.ErrorIs(t, err, ErrNotFound)
		m.assertExpectations(t)
	})

	t.Run("present", func(t *testing.T) {
		m := newServiceMocks()
		svc := NewEconomyService(m.factory)
		m.uow.On("Begin", ctx).Return(nil)
		m.uow.On("Rollback").Return(nil)
		m.balanceRepo.On("GetByUserID", ctx, int64(1)).Return(&models.UserBalance{UserID: 1, Balance: 12}, nil)

		balance, err := svc.GetBalance(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, int64(12), balance.Balance)
		m.assertExpectations(t)
	})
}

func TestEconomyService_SettleBet(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := NewEconomyService(m.factory)

	balances := fakeBalances{1: 0, 2: 500}
	balances.wire(m.balanceRepo)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil).Once()
	m.uow.On("Rollback").Return(nil)
	m.publisher.On("Publish", mock.AnythingOfType("events.BalanceChangeEvent")).Return()
	m.publisher.On("Publish", events.BetSettledEvent{
		BetID:           "bet-1",
		GuildID:         77,
		Name:            "race",
		Winners:         2,
		Losers:          3,
		RewardPerWinner: 150,
	}).Return().Once()

	outcome, err := svc.SettleBet(ctx, 77, "bet-1", "race", []int64{1, 2}, []int64{3, 4, 5})

	require.NoError(t, err)
	assert.Equal(t, int64(300), outcome.TotalLost)
	assert.Equal(t, int64(150), outcome.RewardPerWinner)
	assert.Equal(t, fakeBalances{1: 150, 2: 650, 3: -100, 4: -100, 5: -100}, balances)
	m.assertExpectations(t)
}

func TestEconomyService_SettleBet_IntegerDivision(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := NewEconomyService(m.factory)

	balances := fakeBalances{}
	balances.wire(m.balanceRepo)
	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Commit").Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.publisher.On("Publish", mock.Anything).Return()

	outcome, err := svc.SettleBet(ctx, 1, "b", "n", []int64{1, 2, 3}, []int64{4})

	require.NoError(t, err)
	assert.Equal(t, int64(33), outcome.RewardPerWinner)
	assert.Equal(t, int64(33), balances[1])
	assert.Equal(t, int64(-100), balances[4])
}

func TestEconomyService_SettleBet_NoWinnersMovesNothing(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := NewEconomyService(m.factory)

	outcome, err := svc.SettleBet(ctx, 1, "b", "n", nil, []int64{4, 5})

	require.NoError(t, err)
	assert.Zero(t, outcome.RewardPerWinner)
	assert.Zero(t, outcome.TotalLost)
	m.factory.AssertNotCalled(t, "Create")
	m.balanceRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestEconomyService_SettleBet_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	m := newServiceMocks()
	svc := NewEconomyService(m.factory)

	m.uow.On("Begin", ctx).Return(nil)
	m.uow.On("Rollback").Return(nil)
	m.balanceRepo.On("GetForUpdate", ctx, int64(1)).Return(&models.UserBalance{UserID: 1}, nil)
	m.balanceRepo.On("Upsert", ctx, mock.Anything).Return(nil, errors.New("database error"))

	_, err := svc.SettleBet(ctx, 1, "b", "n", []int64{1}, []int64{2})

	assert.Error(t, err)
	m.uow.AssertNotCalled(t, "Commit")
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything)
	m.uow.AssertExpectations(t)
}
