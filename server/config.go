package server

import (
	"github.com/spf13/afero"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/tm"
)

// Config is used to initialize a tsoracle server based on the given parameters
type Config struct {
	// Owner is the owner principal of a new oracle. It is not required when
	// DataDir already holds an oracle state.
	Owner oracle.Address
	// DataDir is the directory where the oracle state is persisted. The state
	// is only kept in memory if empty.
	DataDir string
	// GRPCAddr is the host:port the GRPC server listens on.
	GRPCAddr string
	// HTTPAddr is the host:port the HTTP server listens on. The HTTP server is
	// not started if empty.
	HTTPAddr string
	// Validation selects how submitted values are checked.
	Validation oracle.ValidationMode
	// MarginBPS is the drift bound in basis points used by strict validation.
	// Zero accepts only values equal to the clock's current time.
	MarginBPS uint64
	// Clock is the interface which is used to access system time inside server.
	Clock tm.Clock
	// Fs is the filesystem DataDir lives on. The OS filesystem is used if nil.
	Fs afero.Fs
}
