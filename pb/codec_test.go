package tsoraclepb

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/stretchr/testify/assert"
)

func TestCodec(t *testing.T) {
	state := &OracleState{
		Timestamp:      1758842435150,
		LastUpdateTime: 1758842435,
		Owner:          "0x00000000000000000000000000000000000000aA",
		Updaters: []string{
			"0x00000000000000000000000000000000000000bB",
			"0x00000000000000000000000000000000000000cC",
		},
		Paused: true,
	}
	cases := []struct {
		name string
		in   proto.Message
		out  proto.Message
	}{
		{name: "oracle state", in: state, out: &OracleState{}},
		{
			name: "status",
			in:   &StatusResponse{ServerStatus: ServerStatus_STOPPED, OracleState: state},
			out:  &StatusResponse{},
		},
		{
			name: "update",
			in:   &UpdateRequest{Caller: state.Owner, Timestamp: 1758842435150},
			out:  &UpdateRequest{},
		},
		{name: "stale", in: &IsStaleResponse{Stale: true}, out: &IsStaleResponse{}},
	}
	var c Codec
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := assert.New(t)
			b, err := c.Marshal(tc.in)
			a.NoError(err)
			a.NoError(c.Unmarshal(b, tc.out))
			a.Equal(tc.in, tc.out)
		})
	}
}

func TestCodecRejectsOtherTypes(t *testing.T) {
	var c Codec
	_, err := c.Marshal("timestamp")
	assert.EqualError(t, err, "string is not a proto message")
	assert.EqualError(t, c.Unmarshal(nil, new(int)), "*int is not a proto message")
	assert.Equal(t, "gogoproto", c.Name())
}

func TestServerStatus(t *testing.T) {
	assert.Equal(t, "NOT_INITIALIZED", ServerStatus_NOT_INITIALIZED.String())
	assert.Equal(t, "STOPPED", ServerStatus(2).String())
	assert.Equal(t, "7", ServerStatus(7).String())
}
