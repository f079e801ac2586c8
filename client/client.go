// Package client assembles a network provider, optional Postgres catalog
// and optional Redis reservations from a config.Config, and hands out
// accounts bound to them.
package client

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bitfsorg/libfund-go/coin"
	"github.com/bitfsorg/libfund-go/config"
	"github.com/bitfsorg/libfund-go/indexer"
	"github.com/bitfsorg/libfund-go/localnode"
	"github.com/bitfsorg/libfund-go/network"
	"github.com/bitfsorg/libfund-go/reserve"
	"github.com/bitfsorg/libfund-go/wallet"
)

// LocalNodeFile is the bbolt file of the local node inside the data dir.
const LocalNodeFile = "localnode.db"

// Client owns the connections behind its accounts. Close releases them.
type Client struct {
	log      zerolog.Logger
	network  *wallet.NetworkConfig
	provider network.Provider
	node     *localnode.Node
	reserver wallet.Reserver
	closers  []func() error
}

// Option customizes New.
type Option func(*options)

type options struct {
	resolver network.DNSResolver
}

// WithResolver overrides the DNS resolver used for SRV discovery.
func WithResolver(r network.DNSResolver) Option {
	return func(o *options) { o.resolver = r }
}

// New validates cfg and connects everything it enables. On error, anything
// already opened is closed again. cfg is used as given; environment
// variables reach it through config.Load or config.FromEnv.
func New(ctx context.Context, cfg config.Config, log zerolog.Logger, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	netCfg, err := wallet.GetNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}

	c := &Client{log: log.With().Str("component", "client").Logger(), network: netCfg}
	if err := c.connect(ctx, cfg, o); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.log.Info().
		Str("network", netCfg.Name).
		Bool("indexer", cfg.Indexer.DSN != "").
		Bool("reservations", c.reserver != nil).
		Msg("client ready")
	return c, nil
}

func (c *Client) connect(ctx context.Context, cfg config.Config, o options) error {
	if cfg.Network == wallet.Local.Name {
		node, err := localnode.Open(filepath.Join(cfg.DataDir, LocalNodeFile), localnode.Options{
			ChainID:     c.network.ChainID,
			MinGasPrice: c.network.MinGasPrice,
			Logger:      c.log,
		})
		if err != nil {
			return err
		}
		c.node = node
		c.provider = node
		c.closers = append(c.closers, node.Close)
	} else {
		rpcCfg, err := c.rpcConfig(cfg, o)
		if err != nil {
			return err
		}
		c.provider = network.NewRPCClient(*rpcCfg)
		c.log.Info().Str("url", rpcCfg.URL).Msg("using remote node")
	}

	if cfg.Indexer.DSN != "" {
		if cfg.Indexer.MigrateOnStart {
			if err := indexer.Migrate(cfg.Indexer.DSN, c.log); err != nil {
				return err
			}
		}
		pool, err := pgxpool.New(ctx, cfg.Indexer.DSN)
		if err != nil {
			return fmt.Errorf("client: indexer pool: %w", err)
		}
		c.closers = append(c.closers, func() error { pool.Close(); return nil })
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("client: ping indexer: %w", err)
		}
		c.provider = network.Composite{
			ResourceCatalog: indexer.NewCatalog(pool, indexer.Options{Logger: c.log}),
			TxService:       c.provider,
		}
	}

	if cfg.Redis.Addr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		c.closers = append(c.closers, rdb.Close)
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("client: ping redis: %w", err)
		}
		c.reserver = reserve.NewStore(rdb, reserve.Options{TTL: cfg.Redis.ReservationTTL, Logger: c.log})
	}
	return nil
}

// rpcConfig resolves the node endpoint from cfg.RPC, SRV discovery when a
// discovery domain is set and no URL is, then the network preset.
func (c *Client) rpcConfig(cfg config.Config, o options) (*network.RPCConfig, error) {
	explicit := network.RPCConfig{URL: cfg.RPC.URL, User: cfg.RPC.User, Password: cfg.RPC.Password}

	var discovered []string
	if cfg.Discovery.Domain != "" && explicit.URL == "" {
		resolver := o.resolver
		if resolver == nil {
			resolver = network.DefaultDNSResolver
			if cfg.Discovery.DNSSEC {
				resolver = network.NewDNSSECResolver(cfg.Discovery.Upstream)
			}
		}
		endpoints, err := network.ResolveEndpointsWithResolver(cfg.Discovery.Domain, resolver)
		if err != nil {
			return nil, err
		}
		discovered = endpoints
		c.log.Debug().Strs("endpoints", endpoints).Msg("discovered nodes")
	}
	return network.Resolve(cfg.Network, explicit, discovered)
}

// Account returns an account for address bound to the client's provider,
// network and reservations.
func (c *Client) Account(address coin.Address) *wallet.Account {
	opts := []wallet.Option{wallet.WithLogger(c.log), wallet.WithNetwork(c.network)}
	if c.reserver != nil {
		opts = append(opts, wallet.WithReserver(c.reserver))
	}
	return wallet.New(address, c.provider, opts...)
}

// Provider returns the assembled provider.
func (c *Client) Provider() network.Provider { return c.provider }

// Network returns the chain parameters accounts are built with.
func (c *Client) Network() *wallet.NetworkConfig { return c.network }

// LocalNode returns the in-process node, or nil on remote networks.
func (c *Client) LocalNode() *localnode.Node { return c.node }

// Close releases every connection in reverse order of opening.
func (c *Client) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
