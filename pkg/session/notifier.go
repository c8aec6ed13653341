package session

import (
	"context"
	"sync"
)

// notifier fans session snapshots out to subscribers. Sends are non-blocking:
// a consumer whose buffer is full misses that change and catches up on the
// next one, which is safe because every event carries the full snapshot.
type notifier struct {
	mu         sync.RWMutex
	subs       map[chan Session]struct{}
	bufferSize int
	closed     bool
	done       chan struct{}
	cleanupWg  sync.WaitGroup
}

func newNotifier(bufferSize int) *notifier {
	return &notifier{
		subs: make(map[chan Session]struct{}),
		done: make(chan struct{}),
		// A zero buffer would make every send blocking and defeat the
		// drop-on-slow-consumer policy.
		bufferSize: max(bufferSize, 1),
	}
}

// subscribe registers a new consumer. The subscription is removed and its
// channel closed when ctx is cancelled or the notifier closes.
func (n *notifier) subscribe(ctx context.Context) <-chan Session {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan Session, n.bufferSize)
	if n.closed {
		close(ch)
		return ch
	}

	n.subs[ch] = struct{}{}

	if ctx.Done() != nil {
		n.cleanupWg.Add(1)
		go func() {
			defer n.cleanupWg.Done()
			select {
			case <-ctx.Done():
				n.unsubscribe(ch)
			case <-n.done:
				// notifier close already closed the channel
			}
		}()
	}

	return ch
}

// publish delivers the snapshot to every subscriber, dropping it for any
// whose buffer is full.
func (n *notifier) publish(s Session) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.closed {
		return
	}

	for ch := range n.subs {
		select {
		case ch <- s:
		default:
		}
	}
}

func (n *notifier) unsubscribe(ch chan Session) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.subs[ch]; ok {
		delete(n.subs, ch)
		close(ch)
	}
}

// close shuts the notifier down and closes all subscriber channels. Safe to
// call more than once.
func (n *notifier) close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	close(n.done)
	for ch := range n.subs {
		close(ch)
	}
	clear(n.subs)
	n.mu.Unlock()

	// Wait for context-cleanup goroutines so no unsubscribe races a
	// closed channel.
	n.cleanupWg.Wait()
}
