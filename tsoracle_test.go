package tsoracle

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"

	"github.com/rubrikinc/tsoracle/oracle"
	"github.com/rubrikinc/tsoracle/server"
	"github.com/rubrikinc/tsoracle/tm"
)

var ownerAddr = common.HexToAddress("0x00000000000000000000000000000000000000aa")

func TestInitialize(t *testing.T) {
	ctx := context.TODO()
	a := assert.New(t)
	clock := tm.NewManualClock()
	clock.SetUnixSeconds(1000)
	fs := afero.NewMemMapFs()
	config := server.Config{
		Owner:     ownerAddr,
		DataDir:   "/var/lib/tsoracle",
		GRPCAddr:  "127.0.0.1:0",
		MarginBPS: oracle.DefaultMarginBPS,
		Clock:     clock,
		Fs:        fs,
	}

	a.False(IsActive())
	a.Equal(uint64(0), Latest(ctx))
	a.True(IsStale(ctx, time.Hour))
	a.Nil(Metrics())

	a.NoError(Initialize(ctx, config))
	defer Stop()
	a.True(IsActive())
	a.NotNil(Server().GRPCAddr())
	a.Equal(uint64(1000000), Latest(ctx))
	a.False(IsStale(ctx, time.Minute))
	a.Equal(float64(1000000), testutil.ToFloat64(Metrics().Timestamp))

	clock.AdvanceTime(time.Second)
	a.NoError(Server().OracleSM.Update(ctx, ownerAddr, 1001000))
	clock.AdvanceTime(2 * time.Minute)
	a.True(IsStale(ctx, time.Minute))
	a.False(IsStale(ctx, 2*time.Minute))

	// a second Initialize replaces the server and restores its state
	a.NoError(Initialize(ctx, config))
	a.True(IsActive())
	a.Equal(uint64(1001000), Latest(ctx))

	Stop()
	a.False(IsActive())
	a.Nil(Server())
	a.Equal(uint64(0), Latest(ctx))
}

func TestInitializeErrors(t *testing.T) {
	ctx := context.TODO()
	clock := tm.NewManualClock()
	clock.SetUnixSeconds(1000)

	err := Initialize(ctx, server.Config{GRPCAddr: "127.0.0.1:0", Clock: clock})
	assert.Regexp(t, "oracle owner", err.Error())
	assert.False(t, IsActive())

	err = Initialize(ctx, server.Config{Owner: ownerAddr, GRPCAddr: "127.0.0.1:-1", Clock: clock})
	assert.Regexp(t, "^tsoracle server did not start: failed to listen on 127.0.0.1:-1", err.Error())
	assert.False(t, IsActive())
}
