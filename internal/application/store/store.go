// Package store implements the per-session state container. A Store owns the
// counter and cart slices, runs reducers on Dispatch, and notifies listeners
// on every committed transition.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Listener is called with the committed state after every transition.
// Listeners run in subscription order on the dispatching goroutine.
type Listener func(ctx context.Context, state State) error

// ErrStoreClosed is returned by Dispatch once the registry has evicted the store.
// Callers resolve the session again through the Registry.
var ErrStoreClosed = errors.New("store: closed")

// Guard inspects the current state before a transition. A non-nil error
// refuses the action without invoking the reducer.
type Guard func(State) error

type subscription struct {
	id       int
	listener Listener
}

// Store is the state container of one session
type Store struct {
	mu        sync.Mutex
	session   uuid.UUID
	state     State
	addMode   cart.AddMode
	listeners []subscription
	nextID    int
	closed    bool
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// Option configures a Store
type Option func(*Store)

// WithAddMode sets what adding an existing product does
func WithAddMode(mode cart.AddMode) Option {
	return func(s *Store) {
		s.addMode = mode
	}
}

// WithInitialState seeds the store
func WithInitialState(state State) Option {
	return func(s *Store) {
		s.state = state.clone()
	}
}

// WithEventPublisher publishes the domain events of each transition
func WithEventPublisher(p shared.EventPublisher) Option {
	return func(s *Store) {
		s.publisher = p
	}
}

// WithLogger sets the store logger
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore creates a store for session with a zero counter and an empty cart
func NewStore(session uuid.UUID, opts ...Option) *Store {
	s := &Store{
		session: session,
		state:   State{Cart: cart.New()},
		addMode: cart.AddModeMerge,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns the session the store belongs to
func (s *Store) Session() uuid.UUID {
	return s.session
}

// State returns a copy of the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers a listener and returns a function removing it
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, listener: l})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch reduces action against the current state and commits the result.
// A reducer error leaves the state unchanged. Once committed, every listener
// is notified; listener errors are returned joined, but the state is not rolled back.
func (s *Store) Dispatch(ctx context.Context, action Action) (State, error) {
	return s.DispatchIf(ctx, nil, action)
}

// DispatchIf is Dispatch with guard evaluated under the same lock as the
// reducer, so no other transition can run between the check and the commit.
func (s *Store) DispatchIf(ctx context.Context, guard Guard, action Action) (State, error) {
	s.mu.Lock()
	prev := s.state
	if s.closed {
		s.mu.Unlock()
		return prev.clone(), ErrStoreClosed
	}
	if guard != nil {
		if err := guard(prev.clone()); err != nil {
			s.mu.Unlock()
			return prev.clone(), err
		}
	}
	next, err := Reduce(prev, action, s.addMode)
	if err != nil {
		s.mu.Unlock()
		return prev.clone(), err
	}
	s.state = next

	var errs []error
	for _, sub := range s.listeners {
		if err := sub.listener(ctx, next.clone()); err != nil {
			errs = append(errs, err)
		}
	}
	committed := next.clone()
	s.mu.Unlock()

	log := logger.Enrich(ctx, s.logger)
	if s.publisher != nil {
		if events := eventsFor(s.session, action, prev, next); len(events) > 0 {
			if err := s.publisher.Publish(ctx, events...); err != nil {
				log.Warn("failed to publish store events", zap.String("action", string(action.Type)), zap.Error(err))
			}
		}
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		log.Error("store listener failed",
			zap.String("session", s.session.String()),
			zap.String("action", string(action.Type)),
			zap.Error(err),
		)
		return committed, fmt.Errorf("notify store listeners: %w", err)
	}
	return committed, nil
}

// close rejects every later dispatch. It waits for an in-flight dispatch,
// so its listeners have persisted before close returns.
func (s *Store) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
