package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeGuildsReconciled     EventType = "guilds_reconciled"
	EventTypeCustomCommandAdded   EventType = "custom_command_added"
	EventTypeCustomCommandDeleted EventType = "custom_command_deleted"
	EventTypeBalanceChange        EventType = "balance_change"
	EventTypeBetSettled           EventType = "bet_settled"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// GuildsReconciledEvent is emitted after startup reconciliation inserted guild records
type GuildsReconciledEvent struct {
	AddedGuildIDs []int64
}

func (e GuildsReconciledEvent) Type() EventType {
	return EventTypeGuildsReconciled
}

// CustomCommandAddedEvent is emitted when a custom command is created or its text replaced
type CustomCommandAddedEvent struct {
	GuildID  int64
	Name     string
	AuthorID int64
}

func (e CustomCommandAddedEvent) Type() EventType {
	return EventTypeCustomCommandAdded
}

// CustomCommandDeletedEvent is emitted when a custom command is removed from a guild
type CustomCommandDeletedEvent struct {
	GuildID  int64
	Name     string
	AuthorID int64
}

func (e CustomCommandDeletedEvent) Type() EventType {
	return EventTypeCustomCommandDeleted
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	UserID     int64
	OldBalance int64
	NewBalance int64
	Reason     string
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// BetSettledEvent represents a reaction bet that distributed rewards
type BetSettledEvent struct {
	BetID           string
	GuildID         int64
	Name            string
	Winners         int
	Losers          int
	RewardPerWinner int64
}

func (e BetSettledEvent) Type() EventType {
	return EventTypeBetSettled
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	wg       sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// SubscribeAll adds a handler for every known event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range []EventType{
		EventTypeGuildsReconciled,
		EventTypeCustomCommandAdded,
		EventTypeCustomCommandDeleted,
		EventTypeBalanceChange,
		EventTypeBetSettled,
	} {
		b.Subscribe(eventType, handler)
	}
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Handlers run asynchronously so a slow subscriber never blocks a command
	for i, handler := range handlers {
		b.wg.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Wait blocks until every handler started by Emit has returned
func (b *Bus) Wait() {
	b.wg.Wait()
}

// TransactionalBus holds events raised inside a unit of work until it commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus wraps the real bus
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish stashes the event until Flush
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful commit
func (b *TransactionalBus) Flush() {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing pending events")

	// Events outlive the transaction context
	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
