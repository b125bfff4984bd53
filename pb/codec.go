package tsoraclepb

import (
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

// CodecName is the content subtype of the messages of this package
const CodecName = "gogoproto"

// Codec marshals the messages of this package with gogo/protobuf. Servers and
// clients of TimeOracle must force it with grpc.ForceServerCodec and
// grpc.ForceCodec.
type Codec struct{}

// Marshal implements encoding.Codec
func (Codec) Marshal(v interface{}) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, errors.Errorf("%T is not a proto message", v)
	}
	return proto.Marshal(m)
}

// Unmarshal implements encoding.Codec
func (Codec) Unmarshal(data []byte, v interface{}) error {
	m, ok := v.(proto.Message)
	if !ok {
		return errors.Errorf("%T is not a proto message", v)
	}
	return proto.Unmarshal(data, m)
}

// Name implements encoding.Codec
func (Codec) Name() string {
	return CodecName
}
