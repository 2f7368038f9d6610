package store

import (
	"context"
	"sync"

	"pantrysync/internal/model"
)

// Subscription is a live view over a filtered record set. C delivers the
// current snapshot on subscribe and a fresh snapshot after every committed
// mutation. Delivery is coalesced: a slow consumer only ever sees the latest
// snapshot. C is closed when the subscription ends.
type Subscription[T any] struct {
	C <-chan []T

	cancel func()
	once   sync.Once
}

// Close ends the subscription and closes C.
func (s *Subscription[T]) Close() {
	s.once.Do(s.cancel)
}

type subscriber[T any] struct {
	mu     sync.Mutex
	ch     chan []T
	filter Filter
	closed bool
}

// send delivers a snapshot, replacing any undelivered previous one.
func (s *subscriber[T]) send(items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for {
		select {
		case s.ch <- items:
			return
		default:
			// Drop the superseded snapshot.
			select {
			case <-s.ch:
			default:
			}
		}
	}
}

func (s *subscriber[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

type subscribers[T model.Record] struct {
	mu   sync.Mutex
	subs map[int]*subscriber[T]
	next int

	// pubMu serializes snapshot computation and delivery. Subscribing holds
	// it across register + initial snapshot + send, so a commit publishing
	// concurrently can never fall between a subscriber's first snapshot and
	// its registration, and an initial snapshot can never land after a
	// fresher published one.
	pubMu sync.Mutex
}

func newSubscribers[T model.Record]() *subscribers[T] {
	return &subscribers[T]{subs: make(map[int]*subscriber[T])}
}

func (r *subscribers[T]) add(sub *subscriber[T]) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	r.subs[id] = sub
	return id
}

func (r *subscribers[T]) remove(id int) {
	r.mu.Lock()
	sub, ok := r.subs[id]
	delete(r.subs, id)
	r.mu.Unlock()
	if ok {
		sub.close()
	}
}

func (r *subscribers[T]) list() []*subscriber[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*subscriber[T], 0, len(r.subs))
	for _, sub := range r.subs {
		out = append(out, sub)
	}
	return out
}

// Watch subscribes to the filtered record set. The subscription ends when
// ctx is cancelled or Close is called.
func (s *Store[T]) Watch(ctx context.Context, f Filter) (*Subscription[T], error) {
	s.subs.pubMu.Lock()

	snapshot, err := s.ListFiltered(ctx, f)
	if err != nil {
		s.subs.pubMu.Unlock()
		return nil, err
	}

	sub := &subscriber[T]{
		ch:     make(chan []T, 1),
		filter: f,
	}
	id := s.subs.add(sub)
	sub.send(snapshot)
	s.subs.pubMu.Unlock()

	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		s.subs.remove(id)
	}()

	return &Subscription[T]{
		C:      sub.ch,
		cancel: func() { close(stop) },
	}, nil
}

// publish pushes a fresh snapshot to every active subscriber after a commit.
func (s *Store[T]) publish(ctx context.Context) {
	s.subs.pubMu.Lock()
	defer s.subs.pubMu.Unlock()

	subs := s.subs.list()
	if len(subs) == 0 {
		return
	}

	// Delivery must not depend on the lifetime of the mutating call's ctx.
	snapshotCtx := context.WithoutCancel(ctx)

	for _, sub := range subs {
		items, err := s.ListFiltered(snapshotCtx, sub.filter)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to compute watch snapshot")
			continue
		}
		sub.send(items)
	}
}
