package timercore

import "sync"

// Broadcaster fans the latest State out to any number of observers with
// conflated delivery: every subscriber channel holds at most one value,
// and a publish to a full channel evicts the stale snapshot first. A
// slow observer therefore always reads the most recent state and never
// works through a backlog, and publishing never blocks the core.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[int]chan State
	nextID int
	latest State
	primed bool
	closed bool
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan State)}
}

// Subscribe registers an observer and returns its channel together with
// a cancel function. The channel is seeded with the latest published
// state, if any, so new observers render immediately. Cancel is safe to
// call more than once and detaches without disturbing other observers.
func (broadcaster *Broadcaster) Subscribe() (<-chan State, func()) {
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()

	ch := make(chan State, 1)
	if broadcaster.closed {
		close(ch)
		return ch, func() {}
	}

	id := broadcaster.nextID
	broadcaster.nextID++
	broadcaster.subs[id] = ch
	if broadcaster.primed {
		ch <- broadcaster.latest
	}

	cancel := func() {
		broadcaster.mu.Lock()
		defer broadcaster.mu.Unlock()
		if sub, ok := broadcaster.subs[id]; ok {
			delete(broadcaster.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers a state snapshot to every subscriber, replacing any
// undelivered previous snapshot.
func (broadcaster *Broadcaster) Publish(state State) {
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	if broadcaster.closed {
		return
	}
	broadcaster.latest = state
	broadcaster.primed = true

	for _, ch := range broadcaster.subs {
		select {
		case ch <- state:
		default:
			// Evict the stale value; latest wins.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- state:
			default:
			}
		}
	}
}

// Close detaches and closes every subscriber channel. Idempotent.
func (broadcaster *Broadcaster) Close() {
	broadcaster.mu.Lock()
	defer broadcaster.mu.Unlock()
	if broadcaster.closed {
		return
	}
	broadcaster.closed = true
	for id, ch := range broadcaster.subs {
		delete(broadcaster.subs, id)
		close(ch)
	}
}
