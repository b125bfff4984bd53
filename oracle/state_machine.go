package oracle

import (
	"context"

	"github.com/ethereum/go-ethereum/event"

	"github.com/rubrikinc/tsoracle/pb"
)

// StateMachine holds the oracle timestamp and decides whether submitted
// values are accepted, rejected or suspended. Every mutating call runs to
// completion before the next one starts and either fully commits or has no
// effect at all.
type StateMachine interface {
	// Latest returns the latest accepted timestamp in milliseconds.
	Latest(ctx context.Context) uint64
	// LastUpdateTime returns the wall clock time in seconds at which Latest
	// was accepted.
	LastUpdateTime(ctx context.Context) uint64
	// IsStale returns whether more than maxAgeSeconds elapsed since
	// LastUpdateTime.
	IsStale(ctx context.Context, maxAgeSeconds uint64) bool
	// IsAuthorizedUpdater returns whether addr may call Update.
	IsAuthorizedUpdater(ctx context.Context, addr Address) bool
	// Owner returns the owner principal.
	Owner(ctx context.Context) Address
	// Paused returns whether updates are suspended.
	Paused(ctx context.Context) bool
	// State returns a snapshot of the current state of the state machine.
	State(ctx context.Context) *tsoraclepb.OracleState

	// Update submits a new timestamp on behalf of caller.
	Update(ctx context.Context, caller Address, value uint64) error
	// RejectOutOfRange returns the rejection of an Update from caller whose
	// value does not fit in 64 bits. The caller and pause checks come first,
	// as in Update, and all checks see the same state.
	RejectOutOfRange(ctx context.Context, caller Address) error
	// AddAuthorizedUpdater authorizes target. Only the owner may call it.
	AddAuthorizedUpdater(ctx context.Context, caller, target Address) error
	// RemoveAuthorizedUpdater revokes target. Only the owner may call it.
	RemoveAuthorizedUpdater(ctx context.Context, caller, target Address) error
	// Pause suspends updates. Only the owner may call it.
	Pause(ctx context.Context, caller Address) error
	// Unpause resumes updates. Only the owner may call it.
	Unpause(ctx context.Context, caller Address) error

	// SubscribeTimeUpdated delivers a TimeUpdated for every accepted update to
	// ch, in acceptance order. Update blocks until every subscriber received
	// the event, so subscribers should drain ch promptly. Reads never wait
	// for subscribers.
	SubscribeTimeUpdated(ch chan<- TimeUpdated) event.Subscription
	// Close ends all subscriptions.
	Close()
}
