package command

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTimeoutExceeded is returned by Wait when no qualifying reaction arrived in time
var ErrTimeoutExceeded = errors.New("timeout exceeded")

// Reaction is a reaction-add event
type Reaction struct {
	GuildID   string
	ChannelID string
	MessageID string
	UserID    string
	Emoji     string
}

// ReactionCheck decides whether a reaction resolves a wait
type ReactionCheck func(Reaction) bool

type pendingWait struct {
	check  ReactionCheck
	result chan Reaction
}

// ReactionWaiter lets commands block until a matching reaction is added
type ReactionWaiter struct {
	mu      sync.Mutex
	pending map[string][]*pendingWait
}

// NewReactionWaiter creates an empty waiter
func NewReactionWaiter() *ReactionWaiter {
	return &ReactionWaiter{
		pending: make(map[string][]*pendingWait),
	}
}

// Wait blocks until a reaction on messageID passes check, the timeout
// elapses or ctx is done. Exactly one of these outcomes is returned.
func (w *ReactionWaiter) Wait(ctx context.Context, messageID string, check ReactionCheck, timeout time.Duration) (Reaction, error) {
	pw := &pendingWait{
		check:  check,
		result: make(chan Reaction, 1),
	}

	w.mu.Lock()
	w.pending[messageID] = append(w.pending[messageID], pw)
	w.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r := <-pw.result:
		return r, nil
	case <-timer.C:
		w.remove(messageID, pw)
		return Reaction{}, ErrTimeoutExceeded
	case <-ctx.Done():
		w.remove(messageID, pw)
		return Reaction{}, ctx.Err()
	}
}

// Dispatch hands a reaction to the waits registered on its message
func (w *ReactionWaiter) Dispatch(r Reaction) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waits := w.pending[r.MessageID]
	if len(waits) == 0 {
		return
	}

	kept := waits[:0]
	for _, pw := range waits {
		if pw.check == nil || pw.check(r) {
			pw.result <- r
			continue
		}
		kept = append(kept, pw)
	}

	if len(kept) == 0 {
		delete(w.pending, r.MessageID)
	} else {
		w.pending[r.MessageID] = kept
	}
}

// Pending returns the number of waits in progress
func (w *ReactionWaiter) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := 0
	for _, waits := range w.pending {
		n += len(waits)
	}
	return n
}

func (w *ReactionWaiter) remove(messageID string, target *pendingWait) {
	w.mu.Lock()
	defer w.mu.Unlock()

	waits := w.pending[messageID]
	for i, pw := range waits {
		if pw == target {
			waits = append(waits[:i], waits[i+1:]...)
			break
		}
	}

	if len(waits) == 0 {
		delete(w.pending, messageID)
	} else {
		w.pending[messageID] = waits
	}
}
