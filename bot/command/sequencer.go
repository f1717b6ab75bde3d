package command

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

const guildQueueSize = 64

// Sequencer prepares messages of one guild in arrival order. Prepared
// invocations then run concurrently so a blocking command does not stall
// the guild's queue.
type Sequencer struct {
	dispatcher *Dispatcher
	ctx        context.Context

	mu     sync.Mutex
	queues map[string]chan Message

	// closing is held for reading across a send so Close cannot strand an
	// accepted message in a queue whose worker already exited
	closing   sync.RWMutex
	done      chan struct{}
	closeOnce sync.Once
	workers   sync.WaitGroup
	running   sync.WaitGroup
}

// NewSequencer creates a sequencer whose invocations use ctx
func NewSequencer(ctx context.Context, dispatcher *Dispatcher) *Sequencer {
	return &Sequencer{
		dispatcher: dispatcher,
		ctx:        ctx,
		queues:     make(map[string]chan Message),
		done:       make(chan struct{}),
	}
}

// Submit queues a message. It reports false once the sequencer is closed.
func (s *Sequencer) Submit(msg Message) bool {
	s.closing.RLock()
	defer s.closing.RUnlock()

	select {
	case <-s.done:
		return false
	default:
	}

	s.queue(msg.GuildID) <- msg
	return true
}

func (s *Sequencer) queue(guildID string) chan Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.queues[guildID]
	if !ok {
		q = make(chan Message, guildQueueSize)
		s.queues[guildID] = q
		s.workers.Add(1)
		go s.work(guildID, q)
	}
	return q
}

func (s *Sequencer) work(guildID string, q chan Message) {
	defer s.workers.Done()

	for {
		select {
		case msg := <-q:
			s.handle(msg)
		case <-s.done:
			for {
				select {
				case msg := <-q:
					s.handle(msg)
				default:
					log.WithField("guildID", guildID).Debug("Guild queue drained")
					return
				}
			}
		}
	}
}

func (s *Sequencer) handle(msg Message) {
	inv, ok := s.dispatcher.Prepare(s.ctx, msg)
	if !ok {
		return
	}

	s.running.Add(1)
	go func() {
		defer s.running.Done()
		inv.Run()
	}()
}

// Close stops accepting messages, drains the queues and waits for running commands
func (s *Sequencer) Close() {
	s.closeOnce.Do(func() {
		s.closing.Lock()
		close(s.done)
		s.closing.Unlock()
	})
	s.workers.Wait()
	s.running.Wait()
}
