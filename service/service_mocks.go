package service

import (
	"context"

	"aoba/models"

	"github.com/stretchr/testify/mock"
)

// MockGuildService is a mock implementation of GuildService
type MockGuildService struct {
	mock.Mock
}

func (m *MockGuildService) Reconcile(ctx context.Context, connectedGuildIDs []int64) ([]int64, error) {
	args := m.Called(ctx, connectedGuildIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockGuildService) EnsureGuild(ctx context.Context, guildID int64) (bool, error) {
	args := m.Called(ctx, guildID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildService) GetPrefix(ctx context.Context, guildID int64) (string, error) {
	args := m.Called(ctx, guildID)
	return args.String(0), args.Error(1)
}

func (m *MockGuildService) SetPrefix(ctx context.Context, guildID int64, prefix string) error {
	args := m.Called(ctx, guildID, prefix)
	return args.Error(0)
}

func (m *MockGuildService) SetAnnouncementChannel(ctx context.Context, guildID int64, channelID *int64) error {
	args := m.Called(ctx, guildID, channelID)
	return args.Error(0)
}

func (m *MockGuildService) AnnouncementChannels(ctx context.Context) (map[int64]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int64), args.Error(1)
}

// MockCustomCommandService is a mock implementation of CustomCommandService
type MockCustomCommandService struct {
	mock.Mock
}

func (m *MockCustomCommandService) ListAll(ctx context.Context) ([]*models.CustomCommand, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CustomCommand), args.Error(1)
}

func (m *MockCustomCommandService) Add(ctx context.Context, guildID, authorID int64, name, text string) (*models.CustomCommand, error) {
	args := m.Called(ctx, guildID, authorID, name, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomCommand), args.Error(1)
}

func (m *MockCustomCommandService) Delete(ctx context.Context, guildID, authorID int64, name string) (bool, error) {
	args := m.Called(ctx, guildID, authorID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomCommandService) GetText(ctx context.Context, guildID int64, name string) (string, error) {
	args := m.Called(ctx, guildID, name)
	return args.String(0), args.Error(1)
}

// MockEconomyService is a mock implementation of EconomyService
type MockEconomyService struct {
	mock.Mock
}

func (m *MockEconomyService) GetBalance(ctx context.Context, userID int64) (*models.UserBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

func (m *MockEconomyService) Deposit(ctx context.Context, userID int64, value int64) (*models.UserBalance, error) {
	args := m.Called(ctx, userID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

func (m *MockEconomyService) Withdraw(ctx context.Context, userID int64, value int64) (*models.UserBalance, error) {
	args := m.Called(ctx, userID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

func (m *MockEconomyService) SettleBet(ctx context.Context, guildID int64, betID, name string, winnerIDs, loserIDs []int64) (*models.BetOutcome, error) {
	args := m.Called(ctx, guildID, betID, name, winnerIDs, loserIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BetOutcome), args.Error(1)
}
