package playback

const batchBufferSize = 16

// Subscription delivers instruction batches to one subscriber.
type Subscription struct {
	Instructions <-chan Batch
	Done         <-chan struct{}

	// Internal write channels
	batchCh chan Batch
	doneCh  chan struct{}
}

// newSubscription creates a new subscription with a buffered batch channel.
func newSubscription() *Subscription {
	s := &Subscription{
		batchCh: make(chan Batch, batchBufferSize),
		doneCh:  make(chan struct{}),
	}
	s.Instructions = s.batchCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// send delivers a batch. Batches are never dropped: send blocks until the
// subscriber reads or stop is closed. Returns false if stop was closed.
func (s *Subscription) send(b Batch, stop <-chan struct{}) bool {
	select {
	case s.batchCh <- b:
		return true
	case <-stop:
		return false
	}
}
