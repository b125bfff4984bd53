package oracle

import (
	"github.com/pkg/errors"

	"github.com/rubrikinc/tsoracle/pb"
)

// oracleState is the single piece of state guarded by the state machine
type oracleState struct {
	// timestamp is the latest accepted value in milliseconds since the epoch
	timestamp uint64
	// lastUpdateTime is the wall clock time in seconds at which timestamp was
	// accepted
	lastUpdateTime uint64
	auth           AuthorizationManager
}

func (s *oracleState) clone() oracleState {
	return oracleState{
		timestamp:      s.timestamp,
		lastUpdateTime: s.lastUpdateTime,
		auth:           s.auth.clone(),
	}
}

func (s *oracleState) snapshot() *tsoraclepb.OracleState {
	updaters := s.auth.Updaters()
	snap := &tsoraclepb.OracleState{
		Timestamp:      s.timestamp,
		LastUpdateTime: s.lastUpdateTime,
		Owner:          s.auth.Owner().Hex(),
		Paused:         s.auth.Paused(),
		Updaters:       make([]string, 0, len(updaters)),
	}
	for _, u := range updaters {
		snap.Updaters = append(snap.Updaters, u.Hex())
	}
	return snap
}

func stateFromSnapshot(snap *tsoraclepb.OracleState) (oracleState, error) {
	owner, err := ParseAddress(snap.Owner)
	if err != nil {
		return oracleState{}, errors.Wrap(err, "invalid owner in snapshot")
	}
	if isZero(owner) {
		return oracleState{}, errors.Wrap(ErrZeroPrincipal, "invalid owner in snapshot")
	}
	if snap.Timestamp == 0 || snap.LastUpdateTime == 0 {
		return oracleState{}, errors.Errorf("uninitialized snapshot: %s", snap)
	}
	auth := NewAuthorizationManager(owner)
	auth.paused = snap.Paused
	for _, u := range snap.Updaters {
		addr, err := ParseAddress(u)
		if err != nil {
			return oracleState{}, errors.Wrap(err, "invalid updater in snapshot")
		}
		if err := auth.AddAuthorizedUpdater(owner, addr); err != nil {
			return oracleState{}, errors.Wrapf(err, "invalid updater %s in snapshot", u)
		}
	}
	return oracleState{
		timestamp:      snap.Timestamp,
		lastUpdateTime: snap.LastUpdateTime,
		auth:           auth,
	}, nil
}
