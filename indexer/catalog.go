// Package indexer serves the resource catalog from a Postgres index of
// unspent coins and messages.
package indexer

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
	"github.com/bitfsorg/libfund-go/network"
)

// DefaultMaxInputs bounds a selection when Options.MaxInputs is zero.
const DefaultMaxInputs = 255

// Pool is the subset of *pgxpool.Pool the catalog uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Options configures a Catalog.
type Options struct {
	MaxInputs int
	Logger    zerolog.Logger
}

// Catalog implements network.ResourceCatalog over the coins and messages
// tables. Amounts are NUMERIC and read back as text.
type Catalog struct {
	pool      Pool
	maxInputs int
	log       zerolog.Logger
}

var _ network.ResourceCatalog = (*Catalog)(nil)

// NewCatalog creates a Catalog on pool.
func NewCatalog(pool Pool, opts Options) *Catalog {
	if opts.MaxInputs <= 0 {
		opts.MaxInputs = DefaultMaxInputs
	}
	return &Catalog{
		pool:      pool,
		maxInputs: opts.MaxInputs,
		log:       opts.Logger.With().Str("component", "indexer").Logger(),
	}
}

const coinColumns = `utxo_id, owner, asset_id, amount::text, maturity, block_created`

const messageColumns = `nonce, sender, recipient, amount::text, data, da_height`

// GetCoins returns owner's unspent coins ordered by id, optionally of one asset.
func (c *Catalog) GetCoins(ctx context.Context, owner coin.Address, assetID *coin.AssetID) ([]*coin.Coin, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if assetID == nil {
		rows, err = c.pool.Query(ctx, `SELECT `+coinColumns+` FROM coins
			WHERE owner = $1 AND NOT spent ORDER BY utxo_id`, owner.String())
	} else {
		rows, err = c.pool.Query(ctx, `SELECT `+coinColumns+` FROM coins
			WHERE owner = $1 AND asset_id = $2 AND NOT spent ORDER BY utxo_id`, owner.String(), assetID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("indexer: query coins: %w", err)
	}
	return scanCoins(rows)
}

// GetMessages returns owner's unspent messages ordered by nonce.
func (c *Catalog) GetMessages(ctx context.Context, owner coin.Address) ([]*coin.Message, error) {
	rows, err := c.pool.Query(ctx, `SELECT `+messageColumns+` FROM messages
		WHERE recipient = $1 AND NOT spent ORDER BY nonce`, owner.String())
	if err != nil {
		return nil, fmt.Errorf("indexer: query messages: %w", err)
	}
	return scanMessages(rows)
}

// GetBalances sums owner's unspent coins per asset, ordered by asset id.
func (c *Catalog) GetBalances(ctx context.Context, owner coin.Address) ([]coin.Quantity, error) {
	rows, err := c.pool.Query(ctx, `SELECT asset_id, SUM(amount)::text FROM coins
		WHERE owner = $1 AND NOT spent GROUP BY asset_id ORDER BY asset_id`, owner.String())
	if err != nil {
		return nil, fmt.Errorf("indexer: query balances: %w", err)
	}
	defer rows.Close()

	var out []coin.Quantity
	for rows.Next() {
		var assetHex, amt string
		if err := rows.Scan(&assetHex, &amt); err != nil {
			return nil, fmt.Errorf("indexer: scan balance: %w", err)
		}
		asset, err := coin.ParseAssetID(assetHex)
		if err != nil {
			return nil, fmt.Errorf("%w: asset %q: %w", ErrCorruptRow, assetHex, err)
		}
		a, err := amount.Parse(amt)
		if err != nil {
			return nil, fmt.Errorf("%w: amount %q: %w", ErrCorruptRow, amt, err)
		}
		out = append(out, coin.Quantity{AssetID: asset, Amount: a})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("indexer: read balances: %w", err)
	}
	return out, nil
}

// GetResourcesToSpend selects owner's resources covering quantities. Per
// asset, candidates are taken largest first (ties by id) until the
// requirement is met. Data-less messages count toward the base asset.
func (c *Catalog) GetResourcesToSpend(ctx context.Context, owner coin.Address, quantities []coin.Quantity, excluded *coin.ExcludedIDs) ([]coin.Resource, error) {
	exCoins, exMsgs := []string{}, []string{}
	if excluded != nil {
		for _, id := range excluded.UTXOs {
			exCoins = append(exCoins, id.String())
		}
		for _, n := range excluded.Messages {
			exMsgs = append(exMsgs, n.String())
		}
	}

	var out []coin.Resource
	for _, q := range coin.MergeQuantities(quantities) {
		if q.Amount.IsZero() {
			continue
		}
		candidates, err := c.candidates(ctx, owner, q.AssetID, exCoins, exMsgs)
		if err != nil {
			return nil, err
		}
		total := amount.Zero()
		for _, r := range candidates {
			if total.GTE(q.Amount) {
				break
			}
			out = append(out, r)
			total = total.Add(r.ResourceAmount())
		}
		if total.LT(q.Amount) {
			return nil, fmt.Errorf("%w: asset %s has %s spendable, need %s",
				network.ErrInsufficientFunds, q.AssetID, total, q.Amount)
		}
		if len(out) > c.maxInputs {
			return nil, fmt.Errorf("%w: more than %d resources needed",
				network.ErrMaxInputsExceeded, c.maxInputs)
		}
	}
	c.log.Debug().Str("owner", owner.String()).Int("resources", len(out)).Msg("selected resources")
	return out, nil
}

// candidates returns the spendable resources of asset, largest first.
// At most maxInputs+1 rows per kind are read: more can never be used.
func (c *Catalog) candidates(ctx context.Context, owner coin.Address, asset coin.AssetID, exCoins, exMsgs []string) ([]coin.Resource, error) {
	rows, err := c.pool.Query(ctx, `SELECT `+coinColumns+` FROM coins
		WHERE owner = $1 AND asset_id = $2 AND NOT spent AND utxo_id <> ALL($3)
		ORDER BY amount DESC, utxo_id ASC LIMIT $4`,
		owner.String(), asset.String(), exCoins, c.maxInputs+1)
	if err != nil {
		return nil, fmt.Errorf("indexer: query spendable coins: %w", err)
	}
	coins, err := scanCoins(rows)
	if err != nil {
		return nil, err
	}
	out := make([]coin.Resource, 0, len(coins))
	for _, co := range coins {
		out = append(out, co)
	}
	if !asset.IsBase() {
		return out, nil
	}

	rows, err = c.pool.Query(ctx, `SELECT `+messageColumns+` FROM messages
		WHERE recipient = $1 AND NOT spent AND length(data) = 0 AND nonce <> ALL($2)
		ORDER BY amount DESC, nonce ASC LIMIT $3`,
		owner.String(), exMsgs, c.maxInputs+1)
	if err != nil {
		return nil, fmt.Errorf("indexer: query spendable messages: %w", err)
	}
	msgs, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if d := out[i].ResourceAmount().Cmp(out[j].ResourceAmount()); d != 0 {
			return d > 0
		}
		return out[i].ResourceID() < out[j].ResourceID()
	})
	return out, nil
}

func scanCoins(rows pgx.Rows) ([]*coin.Coin, error) {
	defer rows.Close()
	var out []*coin.Coin
	for rows.Next() {
		var (
			idHex, ownerHex, assetHex, amt string
			maturity, created            int32
		)
		if err := rows.Scan(&idHex, &ownerHex, &assetHex, &amt, &maturity, &created); err != nil {
			return nil, fmt.Errorf("indexer: scan coin: %w", err)
		}
		co := &coin.Coin{Maturity: uint32(maturity), BlockCreated: uint32(created)}
		var err error
		if co.ID, err = coin.ParseUTXOID(idHex); err != nil {
			return nil, fmt.Errorf("%w: coin id %q: %w", ErrCorruptRow, idHex, err)
		}
		if co.Owner, err = coin.ParseAddress(ownerHex); err != nil {
			return nil, fmt.Errorf("%w: coin owner %q: %w", ErrCorruptRow, ownerHex, err)
		}
		if co.AssetID, err = coin.ParseAssetID(assetHex); err != nil {
			return nil, fmt.Errorf("%w: coin asset %q: %w", ErrCorruptRow, assetHex, err)
		}
		if co.Amount, err = amount.Parse(amt); err != nil {
			return nil, fmt.Errorf("%w: coin amount %q: %w", ErrCorruptRow, amt, err)
		}
		out = append(out, co)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("indexer: read coins: %w", err)
	}
	return out, nil
}

func scanMessages(rows pgx.Rows) ([]*coin.Message, error) {
	defer rows.Close()
	var out []*coin.Message
	for rows.Next() {
		var (
			nonceHex, senderHex, recipientHex, amt string
			data                                   []byte
			daHeight                               int64
		)
		if err := rows.Scan(&nonceHex, &senderHex, &recipientHex, &amt, &data, &daHeight); err != nil {
			return nil, fmt.Errorf("indexer: scan message: %w", err)
		}
		m := &coin.Message{DAHeight: uint64(daHeight)}
		if len(data) > 0 {
			m.Data = data
		}
		var err error
		if m.Nonce, err = coin.ParseNonce(nonceHex); err != nil {
			return nil, fmt.Errorf("%w: message nonce %q: %w", ErrCorruptRow, nonceHex, err)
		}
		if m.Sender, err = coin.ParseAddress(senderHex); err != nil {
			return nil, fmt.Errorf("%w: message sender %q: %w", ErrCorruptRow, senderHex, err)
		}
		if m.Recipient, err = coin.ParseAddress(recipientHex); err != nil {
			return nil, fmt.Errorf("%w: message recipient %q: %w", ErrCorruptRow, recipientHex, err)
		}
		if m.Amount, err = amount.Parse(amt); err != nil {
			return nil, fmt.Errorf("%w: message amount %q: %w", ErrCorruptRow, amt, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("indexer: read messages: %w", err)
	}
	return out, nil
}
