package oracle

import (
	"context"
	"math"

	"github.com/cockroachdb/cockroach/pkg/util/syncutil"
	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/rubrikinc/tsoracle/oraclestats"
	"github.com/rubrikinc/tsoracle/pb"
	"github.com/rubrikinc/tsoracle/tm"
	"github.com/rubrikinc/tsoracle/tsutil/log"
)

// Config is used to construct a StateMachine
type Config struct {
	// Owner is the deploying principal. It is ignored when a persisted state
	// is restored from Store.
	Owner Address
	// Clock is the wall clock of the execution environment. A MonotonicClock
	// is used if nil.
	Clock tm.Clock
	// Validation selects how submitted values are checked.
	Validation ValidationMode
	// MarginBPS is the drift bound in basis points used by strict validation.
	MarginBPS uint64
	// Store persists the state after every accepted mutation. State is only
	// kept in memory if nil.
	Store Store
	// Metrics records oracle metrics. Unregistered metrics are used if nil.
	Metrics *oraclestats.Metrics
}

// stateMachine is the implementation of StateMachine. All of the state lives
// in memory behind a single lock, and is written through to store before a
// mutation is committed.
type stateMachine struct {
	mu struct {
		syncutil.RWMutex
		state oracleState
	}
	// sendMu serializes updates with the delivery of their events. It is
	// taken before mu, and mu is released before the event is sent, so a slow
	// subscriber delays the next update but never a read.
	sendMu    syncutil.Mutex
	clock     tm.Clock
	validator Validator
	store     Store
	metrics   *oraclestats.Metrics

	feed  event.Feed
	scope event.SubscriptionScope
}

var _ StateMachine = &stateMachine{}

// NewStateMachine returns a StateMachine. If config.Store holds a snapshot,
// the state is restored from it, otherwise a new state owned by config.Owner
// is seeded from the clock and saved.
func NewStateMachine(ctx context.Context, config Config) (StateMachine, error) {
	if config.MarginBPS > basisPoints {
		return nil, errors.Errorf("margin %d bps is more than %d bps", config.MarginBPS, basisPoints)
	}
	s := &stateMachine{
		clock:     config.Clock,
		validator: Validator{Mode: config.Validation, MarginBPS: config.MarginBPS},
		store:     config.Store,
		metrics:   config.Metrics,
	}
	if s.clock == nil {
		s.clock = tm.NewMonotonicClock()
	}
	if s.metrics == nil {
		s.metrics = oraclestats.NewMetrics()
	}

	if s.store != nil {
		snap, err := s.store.Load(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load oracle state")
		}
		if snap != nil {
			state, err := stateFromSnapshot(snap)
			if err != nil {
				return nil, err
			}
			if !isZero(config.Owner) && state.auth.Owner() != config.Owner {
				log.Warningf(
					ctx,
					"Ignoring configured owner %s, restored state is owned by %s",
					config.Owner.Hex(), state.auth.Owner().Hex(),
				)
			}
			s.mu.state = state
			s.recordState()
			log.Infof(ctx, "Restored oracle state: %s", snap)
			return s, nil
		}
	}

	if isZero(config.Owner) {
		return nil, errors.Wrap(ErrZeroPrincipal, "oracle owner")
	}
	state := oracleState{
		timestamp:      tm.UnixMillis(s.clock),
		lastUpdateTime: tm.UnixSeconds(s.clock),
		auth:           NewAuthorizationManager(config.Owner),
	}
	if state.timestamp == 0 || state.lastUpdateTime == 0 {
		return nil, errors.Errorf("clock is not initialized, time: %d", s.clock.Now())
	}
	if err := s.commit(ctx, state); err != nil {
		return nil, err
	}
	log.Infof(
		ctx,
		"Created oracle state, owner: %s, timestamp: %d, validation: %s, margin: %d bps",
		config.Owner.Hex(), state.timestamp, s.validator.Mode, s.validator.MarginBPS,
	)
	return s, nil
}

// commit saves next to the store and then makes it the current state. It must
// be called with the lock held.
func (s *stateMachine) commit(ctx context.Context, next oracleState) error {
	if s.store != nil {
		if err := s.store.Save(ctx, next.snapshot()); err != nil {
			return errors.Wrap(err, "failed to persist oracle state")
		}
	}
	s.mu.state = next
	s.recordState()
	return nil
}

func (s *stateMachine) recordState() {
	state := &s.mu.state
	s.metrics.Timestamp.Set(float64(state.timestamp))
	s.metrics.LastUpdateTime.Set(float64(state.lastUpdateTime))
	s.metrics.AuthorizedUpdaters.Set(float64(len(state.auth.updaters)))
	if state.auth.Paused() {
		s.metrics.Paused.Set(1)
	} else {
		s.metrics.Paused.Set(0)
	}
}

// Latest implements the StateMachine interface.
func (s *stateMachine) Latest(ctx context.Context) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.state.timestamp
}

// LastUpdateTime implements the StateMachine interface.
func (s *stateMachine) LastUpdateTime(ctx context.Context) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.state.lastUpdateTime
}

// IsStale implements the StateMachine interface. A deadline beyond the range
// of uint64 is never reached.
func (s *stateMachine) IsStale(ctx context.Context, maxAgeSeconds uint64) bool {
	now := tm.UnixSeconds(s.clock)
	s.mu.RLock()
	last := s.mu.state.lastUpdateTime
	s.mu.RUnlock()
	if maxAgeSeconds > math.MaxUint64-last {
		return false
	}
	return now > last+maxAgeSeconds
}

// IsAuthorizedUpdater implements the StateMachine interface.
func (s *stateMachine) IsAuthorizedUpdater(ctx context.Context, addr Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.state.auth.IsAuthorized(addr)
}

// Owner implements the StateMachine interface.
func (s *stateMachine) Owner(ctx context.Context) Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.state.auth.Owner()
}

// Paused implements the StateMachine interface.
func (s *stateMachine) Paused(ctx context.Context) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.state.auth.Paused()
}

// State implements the StateMachine interface.
func (s *stateMachine) State(ctx context.Context) *tsoraclepb.OracleState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mu.state.snapshot()
}

// checkUpdate returns why value from caller cannot be accepted, if at all.
// Authorization is checked before the pause flag, and both before the value.
func (s *stateMachine) checkUpdate(caller Address, value uint64) error {
	state := &s.mu.state
	if !state.auth.IsAuthorized(caller) {
		return &UnauthorizedUpdaterError{Caller: caller}
	}
	if state.auth.Paused() {
		return ErrPaused
	}
	return s.validator.Validate(value, state.timestamp, tm.UnixMillis(s.clock))
}

// Update implements the StateMachine interface.
func (s *stateMachine) Update(ctx context.Context, caller Address, value uint64) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := s.applyUpdate(ctx, caller, value); err != nil {
		return err
	}
	s.feed.Send(TimeUpdated{Timestamp: value, UpdatedBy: caller})
	return nil
}

// applyUpdate checks and commits value under the state lock.
func (s *stateMachine) applyUpdate(ctx context.Context, caller Address, value uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUpdate(caller, value); err != nil {
		s.rejectUpdate(ctx, caller, value, err)
		return err
	}
	// Updates never touch the updater set, so a shallow copy is enough.
	next := s.mu.state
	next.timestamp = value
	next.lastUpdateTime = tm.UnixSeconds(s.clock)
	if err := s.commit(ctx, next); err != nil {
		log.Errorf(ctx, "Update from %s could not be committed: %v", caller.Hex(), err)
		return err
	}
	s.metrics.UpdatesAccepted.Inc()
	if log.V(1) {
		log.Infof(ctx, "Update accepted, caller: %s, value: %d", caller.Hex(), value)
	}
	return nil
}

// rejectUpdate records a rejected update. It must be called with the lock
// held.
func (s *stateMachine) rejectUpdate(ctx context.Context, caller Address, value uint64, err error) {
	s.metrics.UpdatesRejected.WithLabelValues(Reason(err)).Inc()
	log.Infof(
		ctx,
		"Update rejected, caller: %s, value: %d, current: %d, err: %v",
		caller.Hex(), value, s.mu.state.timestamp, err,
	)
}

// RejectOutOfRange implements the StateMachine interface.
func (s *stateMachine) RejectOutOfRange(ctx context.Context, caller Address) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state := &s.mu.state
	var err error
	switch {
	case !state.auth.IsAuthorized(caller):
		err = &UnauthorizedUpdaterError{Caller: caller}
	case state.auth.Paused():
		err = ErrPaused
	default:
		err = &InvalidTimestampError{Provided: math.MaxUint64, Current: state.timestamp}
	}
	s.rejectUpdate(ctx, caller, math.MaxUint64, err)
	return err
}

// mutateAuth applies op to a copy of the authorization state and commits it
// if op succeeds.
func (s *stateMachine) mutateAuth(
	ctx context.Context, operation string, caller Address, op func(*AuthorizationManager) error,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.mu.state.clone()
	if err := op(&next.auth); err != nil {
		log.Warningf(ctx, "%s rejected, caller: %s, err: %v", operation, caller.Hex(), err)
		return err
	}
	if err := s.commit(ctx, next); err != nil {
		log.Errorf(ctx, "%s from %s could not be committed: %v", operation, caller.Hex(), err)
		return err
	}
	s.metrics.AdminOperations.WithLabelValues(operation).Inc()
	return nil
}

// AddAuthorizedUpdater implements the StateMachine interface.
func (s *stateMachine) AddAuthorizedUpdater(ctx context.Context, caller, target Address) error {
	err := s.mutateAuth(ctx, "add_updater", caller, func(a *AuthorizationManager) error {
		return a.AddAuthorizedUpdater(caller, target)
	})
	if err == nil {
		log.Infof(ctx, "Authorized updater %s", target.Hex())
	}
	return err
}

// RemoveAuthorizedUpdater implements the StateMachine interface.
func (s *stateMachine) RemoveAuthorizedUpdater(ctx context.Context, caller, target Address) error {
	err := s.mutateAuth(ctx, "remove_updater", caller, func(a *AuthorizationManager) error {
		return a.RemoveAuthorizedUpdater(caller, target)
	})
	if err == nil {
		log.Infof(ctx, "Revoked updater %s", target.Hex())
	}
	return err
}

// Pause implements the StateMachine interface.
func (s *stateMachine) Pause(ctx context.Context, caller Address) error {
	err := s.mutateAuth(ctx, "pause", caller, func(a *AuthorizationManager) error {
		return a.Pause(caller)
	})
	if err == nil {
		log.Info(ctx, "Oracle paused")
	}
	return err
}

// Unpause implements the StateMachine interface.
func (s *stateMachine) Unpause(ctx context.Context, caller Address) error {
	err := s.mutateAuth(ctx, "unpause", caller, func(a *AuthorizationManager) error {
		return a.Unpause(caller)
	})
	if err == nil {
		log.Info(ctx, "Oracle unpaused")
	}
	return err
}

// SubscribeTimeUpdated implements the StateMachine interface.
func (s *stateMachine) SubscribeTimeUpdated(ch chan<- TimeUpdated) event.Subscription {
	return s.scope.Track(s.feed.Subscribe(ch))
}

// Close implements the StateMachine interface.
func (s *stateMachine) Close() {
	s.scope.Close()
}
