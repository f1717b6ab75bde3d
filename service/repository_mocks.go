package service

import (
	"context"

	"aoba/events"
	"aoba/models"

	"github.com/stretchr/testify/mock"
)

// MockGuildRepository is a mock implementation of GuildRepository
type MockGuildRepository struct {
	mock.Mock
}

func (m *MockGuildRepository) GetAll(ctx context.Context) ([]*models.Guild, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Guild), args.Error(1)
}

func (m *MockGuildRepository) GetByID(ctx context.Context, guildID int64) (*models.Guild, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Guild), args.Error(1)
}

func (m *MockGuildRepository) Create(ctx context.Context, guild *models.Guild) (bool, error) {
	args := m.Called(ctx, guild)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuildRepository) Update(ctx context.Context, guild *models.Guild) error {
	args := m.Called(ctx, guild)
	return args.Error(0)
}

// MockCustomCommandRepository is a mock implementation of CustomCommandRepository
type MockCustomCommandRepository struct {
	mock.Mock
}

func (m *MockCustomCommandRepository) GetAll(ctx context.Context) ([]*models.CustomCommand, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.CustomCommand), args.Error(1)
}

func (m *MockCustomCommandRepository) GetByGuildAndName(ctx context.Context, guildID int64, name string) (*models.CustomCommand, error) {
	args := m.Called(ctx, guildID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomCommand), args.Error(1)
}

func (m *MockCustomCommandRepository) Upsert(ctx context.Context, cmd *models.CustomCommand) (*models.CustomCommand, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomCommand), args.Error(1)
}

func (m *MockCustomCommandRepository) Delete(ctx context.Context, guildID int64, name string) (bool, error) {
	args := m.Called(ctx, guildID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomCommandRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

// MockUserBalanceRepository is a mock implementation of UserBalanceRepository
type MockUserBalanceRepository struct {
	mock.Mock
}

func (m *MockUserBalanceRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserBalance, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

func (m *MockUserBalanceRepository) GetForUpdate(ctx context.Context, userID int64) (*models.UserBalance, error) {
	args := m.Called(ctx, userID)
	if rf, ok := args.Get(0).(func(context.Context, int64) *models.UserBalance); ok {
		return rf(ctx, userID), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

func (m *MockUserBalanceRepository) Upsert(ctx context.Context, balance *models.UserBalance) (*models.UserBalance, error) {
	args := m.Called(ctx, balance)
	if rf, ok := args.Get(0).(func(context.Context, *models.UserBalance) *models.UserBalance); ok {
		return rf(ctx, balance), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserBalance), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork. Repository getters
// return whatever SetRepositories configured.
type MockUnitOfWork struct {
	mock.Mock
	guildRepo   GuildRepository
	commandRepo CustomCommandRepository
	balanceRepo UserBalanceRepository
	eventBus    EventPublisher
}

// SetRepositories configures the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(guildRepo GuildRepository, commandRepo CustomCommandRepository, balanceRepo UserBalanceRepository) {
	m.guildRepo = guildRepo
	m.commandRepo = commandRepo
	m.balanceRepo = balanceRepo
}

// SetEventBus configures the publisher returned by EventBus
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) GuildRepository() GuildRepository {
	return m.guildRepo
}

func (m *MockUnitOfWork) CustomCommandRepository() CustomCommandRepository {
	return m.commandRepo
}

func (m *MockUnitOfWork) UserBalanceRepository() UserBalanceRepository {
	return m.balanceRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
