package wallet

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bitfsorg/libfund-go/coin"
	"github.com/bitfsorg/libfund-go/network"
	"github.com/bitfsorg/libfund-go/tx"
)

// Reserver holds resources selected by one funding call so that concurrent
// calls for the same owner do not select them again.
type Reserver interface {
	// Reserve marks resources as taken and returns a lock id.
	Reserve(ctx context.Context, owner coin.Address, resources []coin.Resource) (string, error)

	// Release frees the resources held under lockID.
	Release(ctx context.Context, owner coin.Address, lockID string) error

	// Excluded returns the ids of every resource of owner currently reserved.
	Excluded(ctx context.Context, owner coin.Address) (*coin.ExcludedIDs, error)
}

// Account is an address bound to a network provider. It queries the
// owner's resources, funds transaction requests and dispatches them.
type Account struct {
	address coin.Address
	log     zerolog.Logger
	network *NetworkConfig

	mu       sync.RWMutex
	provider network.Provider

	reserver Reserver
	lockMu   sync.Mutex
	locks    map[*tx.Request][]string
}

// Option configures an Account.
type Option func(*Account)

// WithLogger sets the logger used for stage events.
func WithLogger(log zerolog.Logger) Option {
	return func(a *Account) { a.log = log }
}

// WithReserver enables resource reservations during Fund.
func WithReserver(r Reserver) Option {
	return func(a *Account) { a.reserver = r }
}

// WithNetwork sets the chain parameters. The default is Local.
func WithNetwork(cfg *NetworkConfig) Option {
	return func(a *Account) {
		if cfg != nil {
			a.network = cfg
		}
	}
}

// New creates an account for address. provider may be nil and bound later
// with Connect.
func New(address coin.Address, provider network.Provider, opts ...Option) *Account {
	a := &Account{
		address:  address,
		provider: provider,
		log:      zerolog.Nop(),
		network:  &Local,
		locks:    make(map[*tx.Request][]string),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With().Str("address", address.String()).Logger()
	return a
}

// Address returns the account's address.
func (a *Account) Address() coin.Address { return a.address }

// Network returns the account's chain parameters.
func (a *Account) Network() *NetworkConfig { return a.network }

// Provider returns the bound provider, or ErrProviderNotSet.
func (a *Account) Provider() (network.Provider, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.provider == nil {
		return nil, ErrProviderNotSet
	}
	return a.provider, nil
}

// Connect rebinds the account to p. Calls already in flight keep the
// provider they started with.
func (a *Account) Connect(p network.Provider) {
	a.mu.Lock()
	a.provider = p
	a.mu.Unlock()
}

// stage logs one step of a funded transfer.
func (a *Account) stage(stage string, req *tx.Request) {
	ev := a.log.Debug().Str("stage", stage)
	if req != nil {
		if id, err := req.ID(a.network.ChainID); err == nil {
			ev = ev.Str("tx_id", "0x"+hex.EncodeToString(id[:]))
		}
	}
	ev.Msg("transfer stage")
}

// holdLock records a reservation taken while funding req.
func (a *Account) holdLock(req *tx.Request, lockID string) {
	a.lockMu.Lock()
	a.locks[req] = append(a.locks[req], lockID)
	a.lockMu.Unlock()
}

// takeLocks removes and returns the reservations held for req.
func (a *Account) takeLocks(req *tx.Request) []string {
	a.lockMu.Lock()
	defer a.lockMu.Unlock()
	ids := a.locks[req]
	delete(a.locks, req)
	return ids
}

// Release frees the reservations taken while funding req. Callers that fund
// a request and then drop it or only simulate it should call Release;
// SendTransaction does so itself on failure. Releasing a request that holds
// no reservations is a no-op.
func (a *Account) Release(ctx context.Context, req *tx.Request) error {
	if a.reserver == nil || req == nil {
		return nil
	}
	var errs []error
	for _, id := range a.takeLocks(req) {
		if err := a.reserver.Release(ctx, a.address, id); err != nil {
			errs = append(errs, fmt.Errorf("wallet: release %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// releaseLocks is Release for failure paths; errors are logged since the
// reservations expire on their own.
func (a *Account) releaseLocks(ctx context.Context, req *tx.Request) {
	if err := a.Release(ctx, req); err != nil {
		a.log.Warn().Err(err).Msg("release reservation")
	}
}
