package tsoraclepb

import (
	"github.com/gogo/protobuf/proto"
)

// OracleState is a point in time copy of the oracle state. It is also the
// persisted form of the state.
type OracleState struct {
	// Timestamp is the latest accepted value in milliseconds
	Timestamp uint64 `protobuf:"varint,1,opt,name=timestamp,proto3" json:"timestamp"`
	// LastUpdateTime is the wall clock time in seconds at which Timestamp was
	// accepted
	LastUpdateTime uint64 `protobuf:"varint,2,opt,name=last_update_time,json=lastUpdateTime,proto3" json:"lastUpdateTime"`
	// Owner is the hex address of the owner
	Owner string `protobuf:"bytes,3,opt,name=owner,proto3" json:"owner"`
	// Updaters are the hex addresses of the authorized updaters in byte order
	Updaters []string `protobuf:"bytes,4,rep,name=updaters,proto3" json:"updaters"`
	Paused   bool     `protobuf:"varint,5,opt,name=paused,proto3" json:"paused"`
}

func (m *OracleState) Reset()         { *m = OracleState{} }
func (m *OracleState) String() string { return proto.CompactTextString(m) }
func (*OracleState) ProtoMessage()    {}

// ServerStatus is the lifecycle status of a server
type ServerStatus int32

const (
	ServerStatus_NOT_INITIALIZED ServerStatus = 0
	ServerStatus_INITIALIZED     ServerStatus = 1
	ServerStatus_STOPPED         ServerStatus = 2
)

var ServerStatus_name = map[int32]string{
	0: "NOT_INITIALIZED",
	1: "INITIALIZED",
	2: "STOPPED",
}

var ServerStatus_value = map[string]int32{
	"NOT_INITIALIZED": 0,
	"INITIALIZED":     1,
	"STOPPED":         2,
}

func (x ServerStatus) String() string {
	return proto.EnumName(ServerStatus_name, int32(x))
}

func init() {
	proto.RegisterType((*OracleState)(nil), "tsoracle.OracleState")
	proto.RegisterEnum("tsoracle.ServerStatus", ServerStatus_name, ServerStatus_value)
}
