package oracle

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// Address identifies a principal. The zero address is the null principal and
// can never be authorized.
type Address = common.Address

// ParseAddress parses a 0x-prefixed (or bare) hex encoded 20 byte address.
func ParseAddress(s string) (Address, error) {
	if !common.IsHexAddress(s) {
		return Address{}, errors.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func isZero(a Address) bool {
	return a == (Address{})
}
