package mpris

// newSubscription creates the coalescing conduit between a watcher and its
// client. The out channel has exactly one slot: a new snapshot overwrites an
// unconsumed previous one, so a slow client only ever sees the latest state.
func newSubscription() *Subscription {
	return &Subscription{
		out:  make(chan *Snapshot, 1),
		done: make(chan struct{}),
	}
}

// Updates returns the snapshot stream. It yields the most recent snapshot
// only (latest-value, not queued) and is closed when the watcher terminates;
// that close is the stream's sole end signal.
func (s *Subscription) Updates() <-chan *Snapshot {
	return s.out
}

// Close drops the client's interest in the stream. The watcher's next
// publish fails, which is its only cancellation signal. Safe to call twice.
func (s *Subscription) Close() {
	s.once.Do(func() { close(s.done) })
}

// publish hands a snapshot to the client, replacing any unconsumed previous
// value. It never blocks the watcher indefinitely. Returns false once the
// subscription is closed.
func (s *Subscription) publish(snap *Snapshot) bool {
	for {
		select {
		case <-s.done:
			return false
		case s.out <- snap:
			return true
		default:
		}
		// Slot full: drop the stale snapshot and retry.
		select {
		case <-s.out:
		default:
		}
	}
}

// finish closes the updates channel. Watcher-side only, called exactly once
// when its loop exits.
func (s *Subscription) finish() {
	close(s.out)
}
