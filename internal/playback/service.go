package playback

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/llehouerou/stories/internal/catalog"
)

const queueSize = 64

// Service runs the engine on a single goroutine. Commands, timer firings and
// media results are all queued and applied one at a time, so the engine is
// never mutated concurrently. The service owns the auto-advance timer.
type Service struct {
	catalog catalog.Catalog
	engine  *Engine
	clock   clockwork.Clock
	logger  *slog.Logger
	delay   time.Duration

	queue chan func()

	// Only touched from the run goroutine.
	timer    clockwork.Timer
	timerTok TimerToken

	subs   []*Subscription
	subsMu sync.RWMutex

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// Option configures a Service.
type Option func(*Service)

// WithAdvanceDelay sets how long a loaded story stays on screen.
func WithAdvanceDelay(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithClock sets the clock used for the auto-advance timer.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a service for the catalog and starts its event loop.
// Call Shutdown to stop it.
func NewService(c catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		catalog: c,
		clock:   clockwork.NewRealClock(),
		logger:  slog.New(slog.DiscardHandler),
		delay:   DefaultAdvanceDelay,
		queue:   make(chan func(), queueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.engine = NewEngine(c, s.delay)
	go s.run()
	return s
}

// Catalog returns the catalog the service was created with.
func (s *Service) Catalog() catalog.Catalog {
	return s.catalog
}

// Delay returns the auto-advance delay.
func (s *Service) Delay() time.Duration {
	return s.delay
}

// Subscribe creates a new instruction subscription. Subscribers must keep
// reading Instructions; the event loop waits for them.
func (s *Service) Subscribe() *Subscription {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	sub := newSubscription()
	s.subs = append(s.subs, sub)
	return sub
}

// Open opens the viewer at userIndex. The index is checked immediately.
func (s *Service) Open(userIndex int) error {
	if err := checkIndex(s.catalog, userIndex); err != nil {
		return err
	}
	s.enqueue(func() {
		b, err := s.engine.Open(userIndex)
		if err != nil {
			s.logger.Error("open viewer", "user", userIndex, "error", err)
			return
		}
		s.logger.Debug("viewer opened", "user", userIndex)
		s.dispatch(b)
	})
	return nil
}

// Close closes the viewer.
func (s *Service) Close() {
	s.enqueue(func() {
		s.dispatch(s.engine.Close())
	})
}

// NextStory moves to the next story.
func (s *Service) NextStory() {
	s.enqueue(func() {
		s.dispatch(s.engine.NextStory())
	})
}

// PreviousStory moves to the previous story.
func (s *Service) PreviousStory() {
	s.enqueue(func() {
		s.dispatch(s.engine.PreviousStory())
	})
}

// MediaLoaded reports a successful media load.
func (s *Service) MediaLoaded(token LoadToken) {
	s.enqueue(func() {
		b := s.engine.OnLoaded(token)
		if b == nil {
			s.logger.Debug("stale media load ignored", "generation", token.Generation)
			return
		}
		s.dispatch(b)
	})
}

// MediaFailed reports a failed media load.
func (s *Service) MediaFailed(token LoadToken, err error) {
	s.enqueue(func() {
		b := s.engine.OnLoadError(token, err)
		if b == nil {
			s.logger.Debug("stale media failure ignored", "generation", token.Generation, "error", err)
			return
		}
		s.dispatch(b)
	})
}

// Snapshot returns the engine state once every previously queued command has
// been applied.
func (s *Service) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	closed := Snapshot{State: StateClosed, UserIndex: -1, StoryIndex: -1}
	if !s.enqueue(func() { reply <- s.engine.Snapshot() }) {
		return closed
	}
	select {
	case snap := <-reply:
		return snap
	case <-s.done:
		return closed
	}
}

// Shutdown stops the event loop and the pending timer, and closes all
// subscriptions. It is safe to call more than once.
func (s *Service) Shutdown() {
	s.closeOnce.Do(func() {
		close(s.done)
		<-s.stopped

		s.subsMu.Lock()
		for _, sub := range s.subs {
			sub.close()
		}
		s.subs = nil
		s.subsMu.Unlock()
	})
}

func (s *Service) run() {
	defer close(s.stopped)
	for {
		select {
		case fn := <-s.queue:
			fn()
		case <-s.done:
			s.stopTimer()
			return
		}
	}
}

func (s *Service) enqueue(fn func()) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.queue <- fn:
		return true
	case <-s.done:
		return false
	}
}

// dispatch executes timer instructions and publishes the rest.
func (s *Service) dispatch(b Batch) {
	if len(b) == 0 {
		return
	}
	view := make(Batch, 0, len(b))
	for _, in := range b {
		switch in := in.(type) {
		case ScheduleAdvance:
			s.startTimer(in)
		case CancelAdvance:
			if in.Timer == s.timerTok {
				s.stopTimer()
			}
		case MediaSkipped:
			s.logger.Warn("story media failed, skipping",
				"url", in.URL,
				"user", in.Token.UserIndex,
				"story", in.Token.StoryIndex,
				"error", in.Err,
			)
			view = append(view, in)
		default:
			view = append(view, in)
		}
	}
	if len(view) > 0 {
		s.publish(view)
	}
}

func (s *Service) startTimer(in ScheduleAdvance) {
	s.stopTimer()
	tok := in.Timer
	s.timerTok = tok
	s.timer = s.clock.AfterFunc(in.Delay, func() {
		s.enqueue(func() { s.fire(tok) })
	})
}

func (s *Service) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = nil
	s.timerTok = 0
}

func (s *Service) fire(tok TimerToken) {
	if tok == s.timerTok {
		s.timer = nil
		s.timerTok = 0
	}
	s.dispatch(s.engine.AdvanceDue(tok))
}

func (s *Service) publish(b Batch) {
	s.subsMu.RLock()
	subs := make([]*Subscription, len(s.subs))
	copy(subs, s.subs)
	s.subsMu.RUnlock()

	for _, sub := range subs {
		if !sub.send(b, s.done) {
			return
		}
	}
}
