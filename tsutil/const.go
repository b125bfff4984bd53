package tsutil

const (
	// DefaultGRPCPort is the default port used by the oracle GRPC server
	DefaultGRPCPort = "5867"
	// DefaultHTTPPort is the default port used by the oracle HTTP server
	DefaultHTTPPort = "5868"
	// StateFileName is the name of the file in the data directory holding the
	// persisted oracle state
	StateFileName = "oracle-state"
)
