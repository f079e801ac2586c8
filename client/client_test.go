package client

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
	"github.com/bitfsorg/libfund-go/config"
	"github.com/bitfsorg/libfund-go/network"
	"github.com/bitfsorg/libfund-go/tx"
	"github.com/bitfsorg/libfund-go/wallet"
)

var (
	alice = coin.MustAddress("0x09c0b2d1a486c439a87bcba6b46a7a1a23f3897cc83a94521a96da5c23bc58db")
	bob   = coin.MustAddress("0x0202020202020202020202020202020202020202020202020202020202020202")
)

func localConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	return cfg
}

type fakeResolver struct {
	addrs []*net.SRV
	err   error
}

func (f *fakeResolver) LookupSRV(_, _, _ string) (string, []*net.SRV, error) {
	return "", f.addrs, f.err
}

func TestNewLocal(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, localConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.LocalNode())
	assert.Equal(t, "local", c.Network().Name)

	_, err = c.LocalNode().Mint(alice, coin.BaseAssetID, amount.New(10))
	require.NoError(t, err)

	acct := c.Account(alice)
	resp, err := acct.Transfer(ctx, bob, amount.New(4), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, network.StatusSuccess, resp.Status)

	got, err := c.Account(bob).GetBalance(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "4", got.String())
}

func TestNewLocalWithRedis(t *testing.T) {
	ctx := context.Background()
	s := miniredis.RunT(t)
	cfg := localConfig(t)
	cfg.Redis.Addr = s.Addr()
	cfg.Redis.ReservationTTL = time.Minute

	c, err := New(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.LocalNode().Mint(alice, coin.BaseAssetID, amount.New(10))
	require.NoError(t, err)

	req := tx.NewScriptRequest(tx.Params{})
	require.NoError(t, c.Account(alice).Fund(ctx, req, []coin.Quantity{coin.NewQuantity(1, coin.BaseAssetID)}, amount.Zero()))
	assert.NotEmpty(t, s.Keys(), "funding reserves the selected coin")

	// The only coin is held, so a second funding finds nothing.
	err = c.Account(alice).Fund(ctx, tx.NewScriptRequest(tx.Params{}),
		[]coin.Quantity{coin.NewQuantity(1, coin.BaseAssetID)}, amount.Zero())
	assert.ErrorIs(t, err, wallet.ErrInsufficientFunds)
}

func TestNewRedisUnreachable(t *testing.T) {
	cfg := localConfig(t)
	cfg.Redis.Addr = "127.0.0.1:1"
	_, err := New(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewTestnetPreset(t *testing.T) {
	cfg := localConfig(t)
	cfg.Network = "testnet"

	c, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.LocalNode())
	rpc, ok := c.Provider().(*network.RPCClient)
	require.True(t, ok)
	assert.Equal(t, network.Presets["testnet"].URL, rpc.URL())
}

func TestNewDiscovery(t *testing.T) {
	cfg := localConfig(t)
	cfg.Network = "mainnet"
	cfg.Discovery.Domain = "fund.example"

	resolver := &fakeResolver{addrs: []*net.SRV{
		{Target: "backup.fund.example.", Port: 4000, Priority: 20},
		{Target: "node.fund.example.", Port: 4443, Priority: 10},
	}}
	c, err := New(context.Background(), cfg, zerolog.Nop(), WithResolver(resolver))
	require.NoError(t, err)
	defer c.Close()

	rpc, ok := c.Provider().(*network.RPCClient)
	require.True(t, ok)
	assert.Equal(t, "https://node.fund.example:4443/rpc", rpc.URL())
}

func TestNewDiscoveryFailure(t *testing.T) {
	cfg := localConfig(t)
	cfg.Network = "mainnet"
	cfg.Discovery.Domain = "fund.example"

	_, err := New(context.Background(), cfg, zerolog.Nop(),
		WithResolver(&fakeResolver{err: errors.New("SERVFAIL")}))
	assert.ErrorIs(t, err, network.ErrDNSLookupFailed)
}

func TestNewMainnetRequiresURL(t *testing.T) {
	cfg := localConfig(t)
	cfg.Network = "mainnet"

	_, err := New(context.Background(), cfg, zerolog.Nop())
	assert.ErrorIs(t, err, network.ErrNoRPCEndpoint)
}

func TestNewMainnetFromEnv(t *testing.T) {
	t.Setenv(config.EnvRPCURL, "https://env.fund.example/rpc")
	base := localConfig(t)
	base.Network = "mainnet"
	cfg, err := config.FromEnv(base)
	require.NoError(t, err)

	c, err := New(context.Background(), *cfg, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, "https://env.fund.example/rpc", c.Provider().(*network.RPCClient).URL())
	assert.Equal(t, uint64(9889), c.Network().ChainID)
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := localConfig(t)
	cfg.Network = "devnet"
	_, err := New(context.Background(), cfg, zerolog.Nop())
	assert.ErrorIs(t, err, config.ErrInvalidNetwork)
}

func TestNewBadIndexerDSN(t *testing.T) {
	cfg := localConfig(t)
	cfg.Indexer.DSN = "postgres://%zz"
	_, err := New(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestCloseIdempotent(t *testing.T) {
	c, err := New(context.Background(), localConfig(t), zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
