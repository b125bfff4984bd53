package oracle

import (
	"context"
	"math"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// ABIJSON is the ABI of the oracle contract.
const ABIJSON = `[
	{"type":"function","name":"updateTimestamp","stateMutability":"nonpayable",
	 "inputs":[{"name":"newTimestamp","type":"uint256"}],"outputs":[]},
	{"type":"function","name":"latest","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"lastUpdateTime","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"isStale","stateMutability":"view",
	 "inputs":[{"name":"maxAge","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"addAuthorizedUpdater","stateMutability":"nonpayable",
	 "inputs":[{"name":"updater","type":"address"}],"outputs":[]},
	{"type":"function","name":"removeAuthorizedUpdater","stateMutability":"nonpayable",
	 "inputs":[{"name":"updater","type":"address"}],"outputs":[]},
	{"type":"function","name":"isAuthorizedUpdater","stateMutability":"view",
	 "inputs":[{"name":"updater","type":"address"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"pause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"unpause","stateMutability":"nonpayable","inputs":[],"outputs":[]},
	{"type":"function","name":"owner","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"address"}]},
	{"type":"function","name":"paused","stateMutability":"view",
	 "inputs":[],"outputs":[{"name":"","type":"bool"}]},
	{"type":"event","name":"TimeUpdated","anonymous":false,
	 "inputs":[{"name":"timestamp","type":"uint256","indexed":false},
	           {"name":"updatedBy","type":"address","indexed":true}]}
]`

var oracleABI = mustParseABI(ABIJSON)

func mustParseABI(s string) abi.ABI {
	a, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return a
}

// ABI returns the parsed ABI of the oracle contract.
func ABI() abi.ABI {
	return oracleABI
}

// CalldataError is returned by Contract.Call for calldata which does not
// decode to a call of the oracle ABI.
type CalldataError struct {
	Err error
}

func (e *CalldataError) Error() string { return e.Err.Error() }

// Cause implements the causer interface of github.com/pkg/errors.
func (e *CalldataError) Cause() error { return e.Err }

// Unwrap supports errors.Is and errors.As.
func (e *CalldataError) Unwrap() error { return e.Err }

// Contract exposes a StateMachine through ABI encoded calldata, the way the
// off-chain updater addresses the oracle.
type Contract struct {
	sm StateMachine
}

// NewContract returns a Contract dispatching to sm
func NewContract(sm StateMachine) *Contract {
	return &Contract{sm: sm}
}

// Call decodes calldata (a 4 byte method selector followed by the ABI encoded
// arguments), invokes the method on behalf of caller and returns the ABI
// encoded return values.
func (c *Contract) Call(ctx context.Context, caller Address, calldata []byte) ([]byte, error) {
	if len(calldata) < 4 {
		return nil, &CalldataError{errors.Errorf("calldata too short: %d bytes", len(calldata))}
	}
	method, err := oracleABI.MethodById(calldata[:4])
	if err != nil {
		return nil, &CalldataError{errors.Wrapf(err, "unknown selector %x", calldata[:4])}
	}
	args, err := method.Inputs.Unpack(calldata[4:])
	if err != nil {
		return nil, &CalldataError{errors.Wrapf(err, "could not decode arguments of %s", method.Sig)}
	}

	var out []interface{}
	switch method.Name {
	case "updateTimestamp":
		if err := c.update(ctx, caller, args[0].(*big.Int)); err != nil {
			return nil, err
		}
	case "latest":
		out = append(out, new(big.Int).SetUint64(c.sm.Latest(ctx)))
	case "lastUpdateTime":
		out = append(out, new(big.Int).SetUint64(c.sm.LastUpdateTime(ctx)))
	case "isStale":
		out = append(out, c.sm.IsStale(ctx, saturatingUint64(args[0].(*big.Int))))
	case "addAuthorizedUpdater":
		if err := c.sm.AddAuthorizedUpdater(ctx, caller, args[0].(Address)); err != nil {
			return nil, err
		}
	case "removeAuthorizedUpdater":
		if err := c.sm.RemoveAuthorizedUpdater(ctx, caller, args[0].(Address)); err != nil {
			return nil, err
		}
	case "isAuthorizedUpdater":
		out = append(out, c.sm.IsAuthorizedUpdater(ctx, args[0].(Address)))
	case "pause":
		if err := c.sm.Pause(ctx, caller); err != nil {
			return nil, err
		}
	case "unpause":
		if err := c.sm.Unpause(ctx, caller); err != nil {
			return nil, err
		}
	case "owner":
		out = append(out, c.sm.Owner(ctx))
	case "paused":
		out = append(out, c.sm.Paused(ctx))
	default:
		return nil, &CalldataError{errors.Errorf("method %s is not callable", method.Sig)}
	}
	return method.Outputs.Pack(out...)
}

// update submits value, or rejects it if it does not fit in 64 bits.
func (c *Contract) update(ctx context.Context, caller Address, value *big.Int) error {
	if value.Sign() >= 0 && value.IsUint64() {
		return c.sm.Update(ctx, caller, value.Uint64())
	}
	return c.sm.RejectOutOfRange(ctx, caller)
}

func saturatingUint64(v *big.Int) uint64 {
	if v.IsUint64() {
		return v.Uint64()
	}
	return math.MaxUint64
}

// PackUpdate returns the calldata of updateTimestamp(value).
func PackUpdate(value uint64) ([]byte, error) {
	return oracleABI.Pack("updateTimestamp", new(big.Int).SetUint64(value))
}
