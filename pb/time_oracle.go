package tsoraclepb

import (
	"github.com/gogo/protobuf/proto"
)

type StatusRequest struct{}

func (m *StatusRequest) Reset()         { *m = StatusRequest{} }
func (m *StatusRequest) String() string { return proto.CompactTextString(m) }
func (*StatusRequest) ProtoMessage()    {}

type StatusResponse struct {
	ServerStatus ServerStatus `protobuf:"varint,1,opt,name=server_status,json=serverStatus,proto3,enum=tsoracle.ServerStatus" json:"server_status,omitempty"`
	OracleState  *OracleState `protobuf:"bytes,2,opt,name=oracle_state,json=oracleState" json:"oracle_state,omitempty"`
}

func (m *StatusResponse) Reset()         { *m = StatusResponse{} }
func (m *StatusResponse) String() string { return proto.CompactTextString(m) }
func (*StatusResponse) ProtoMessage()    {}

type LatestRequest struct{}

func (m *LatestRequest) Reset()         { *m = LatestRequest{} }
func (m *LatestRequest) String() string { return proto.CompactTextString(m) }
func (*LatestRequest) ProtoMessage()    {}

type LatestResponse struct {
	Timestamp uint64 `protobuf:"varint,1,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (m *LatestResponse) Reset()         { *m = LatestResponse{} }
func (m *LatestResponse) String() string { return proto.CompactTextString(m) }
func (*LatestResponse) ProtoMessage()    {}

type LastUpdateTimeRequest struct{}

func (m *LastUpdateTimeRequest) Reset()         { *m = LastUpdateTimeRequest{} }
func (m *LastUpdateTimeRequest) String() string { return proto.CompactTextString(m) }
func (*LastUpdateTimeRequest) ProtoMessage()    {}

type LastUpdateTimeResponse struct {
	LastUpdateTime uint64 `protobuf:"varint,1,opt,name=last_update_time,json=lastUpdateTime,proto3" json:"last_update_time,omitempty"`
}

func (m *LastUpdateTimeResponse) Reset()         { *m = LastUpdateTimeResponse{} }
func (m *LastUpdateTimeResponse) String() string { return proto.CompactTextString(m) }
func (*LastUpdateTimeResponse) ProtoMessage()    {}

type IsStaleRequest struct {
	MaxAgeSeconds uint64 `protobuf:"varint,1,opt,name=max_age_seconds,json=maxAgeSeconds,proto3" json:"max_age_seconds,omitempty"`
}

func (m *IsStaleRequest) Reset()         { *m = IsStaleRequest{} }
func (m *IsStaleRequest) String() string { return proto.CompactTextString(m) }
func (*IsStaleRequest) ProtoMessage()    {}

type IsStaleResponse struct {
	Stale bool `protobuf:"varint,1,opt,name=stale,proto3" json:"stale,omitempty"`
}

func (m *IsStaleResponse) Reset()         { *m = IsStaleResponse{} }
func (m *IsStaleResponse) String() string { return proto.CompactTextString(m) }
func (*IsStaleResponse) ProtoMessage()    {}

type IsAuthorizedUpdaterRequest struct {
	Updater string `protobuf:"bytes,1,opt,name=updater,proto3" json:"updater,omitempty"`
}

func (m *IsAuthorizedUpdaterRequest) Reset()         { *m = IsAuthorizedUpdaterRequest{} }
func (m *IsAuthorizedUpdaterRequest) String() string { return proto.CompactTextString(m) }
func (*IsAuthorizedUpdaterRequest) ProtoMessage()    {}

type IsAuthorizedUpdaterResponse struct {
	Authorized bool `protobuf:"varint,1,opt,name=authorized,proto3" json:"authorized,omitempty"`
}

func (m *IsAuthorizedUpdaterResponse) Reset()         { *m = IsAuthorizedUpdaterResponse{} }
func (m *IsAuthorizedUpdaterResponse) String() string { return proto.CompactTextString(m) }
func (*IsAuthorizedUpdaterResponse) ProtoMessage()    {}

// UpdateRequest submits Timestamp on behalf of Caller
type UpdateRequest struct {
	Caller    string `protobuf:"bytes,1,opt,name=caller,proto3" json:"caller,omitempty"`
	Timestamp uint64 `protobuf:"varint,2,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

func (m *UpdateRequest) Reset()         { *m = UpdateRequest{} }
func (m *UpdateRequest) String() string { return proto.CompactTextString(m) }
func (*UpdateRequest) ProtoMessage()    {}

// UpdaterRequest authorizes or revokes Updater on behalf of Caller
type UpdaterRequest struct {
	Caller  string `protobuf:"bytes,1,opt,name=caller,proto3" json:"caller,omitempty"`
	Updater string `protobuf:"bytes,2,opt,name=updater,proto3" json:"updater,omitempty"`
}

func (m *UpdaterRequest) Reset()         { *m = UpdaterRequest{} }
func (m *UpdaterRequest) String() string { return proto.CompactTextString(m) }
func (*UpdaterRequest) ProtoMessage()    {}

// PauseRequest pauses or unpauses the oracle on behalf of Caller
type PauseRequest struct {
	Caller string `protobuf:"bytes,1,opt,name=caller,proto3" json:"caller,omitempty"`
}

func (m *PauseRequest) Reset()         { *m = PauseRequest{} }
func (m *PauseRequest) String() string { return proto.CompactTextString(m) }
func (*PauseRequest) ProtoMessage()    {}

// Empty is the response of the mutating calls
type Empty struct{}

func (m *Empty) Reset()         { *m = Empty{} }
func (m *Empty) String() string { return proto.CompactTextString(m) }
func (*Empty) ProtoMessage()    {}
