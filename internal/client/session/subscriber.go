package session

import (
	"sync"

	"github.com/atinyakov/reddish/internal/models"
)

// subscriber decouples publishers from a single consumer. Values pushed
// while the consumer is slow accumulate in queue, so Set never blocks.
type subscriber struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []*models.User
	stopped bool
	done    chan struct{}
	out     chan *models.User
}

func newSubscriber() *subscriber {
	sub := &subscriber{
		done: make(chan struct{}),
		out:  make(chan *models.User),
	}
	sub.cond = sync.NewCond(&sub.mu)
	go sub.pump()
	return sub
}

func (s *subscriber) push(u *models.User) {
	s.mu.Lock()
	if !s.stopped {
		s.queue = append(s.queue, u)
		s.cond.Signal()
	}
	s.mu.Unlock()
}

func (s *subscriber) stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.done)
		s.cond.Signal()
	}
	s.mu.Unlock()
}

// pump forwards queued values to the consumer in order, closing out once
// the subscription is cancelled.
func (s *subscriber) pump() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.stopped {
			s.cond.Wait()
		}
		if s.stopped {
			s.mu.Unlock()
			close(s.out)
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- next:
		case <-s.done:
			close(s.out)
			return
		}
	}
}
