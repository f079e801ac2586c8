package localnode

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
	"github.com/bitfsorg/libfund-go/network"
)

// GetCoins returns owner's coins in id order, optionally filtered to one asset.
func (n *Node) GetCoins(ctx context.Context, owner coin.Address, assetID *coin.AssetID) ([]*coin.Coin, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*coin.Coin
	err := n.db.View(func(btx *bbolt.Tx) error {
		coins, err := ownerCoins(btx, owner)
		if err != nil {
			return err
		}
		for _, c := range coins {
			if assetID == nil || c.AssetID == *assetID {
				out = append(out, c)
			}
		}
		return nil
	})
	return out, err
}

// GetMessages returns the messages redeemable by owner in nonce order.
func (n *Node) GetMessages(ctx context.Context, owner coin.Address) ([]*coin.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*coin.Message
	err := n.db.View(func(btx *bbolt.Tx) error {
		var err error
		out, err = ownerMessages(btx, owner)
		return err
	})
	return out, err
}

// GetBalances sums owner's coins per asset, ordered by asset id.
func (n *Node) GetBalances(ctx context.Context, owner coin.Address) ([]coin.Quantity, error) {
	coins, err := n.GetCoins(ctx, owner, nil)
	if err != nil {
		return nil, err
	}
	totals := make(map[coin.AssetID]amount.Amount)
	for _, c := range coins {
		totals[c.AssetID] = totals[c.AssetID].Add(c.Amount)
	}
	out := make([]coin.Quantity, 0, len(totals))
	for asset, amt := range totals {
		out = append(out, coin.Quantity{AssetID: asset, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].AssetID[:], out[j].AssetID[:]) < 0
	})
	return out, nil
}

// GetResourcesToSpend selects owner's resources covering quantities.
// Per asset, candidates are taken largest first (ties by id) until the
// requirement is met. Messages count toward the base asset.
func (n *Node) GetResourcesToSpend(ctx context.Context, owner coin.Address, quantities []coin.Quantity, excluded *coin.ExcludedIDs) ([]coin.Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	skip := excluded.Index()
	var pool []coin.Resource
	err := n.db.View(func(btx *bbolt.Tx) error {
		coins, err := ownerCoins(btx, owner)
		if err != nil {
			return err
		}
		msgs, err := ownerMessages(btx, owner)
		if err != nil {
			return err
		}
		for _, c := range coins {
			if !skip.Contains(c) {
				pool = append(pool, c)
			}
		}
		for _, m := range msgs {
			if len(m.Data) == 0 && !skip.Contains(m) {
				pool = append(pool, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(pool, func(i, j int) bool {
		if c := pool[i].ResourceAmount().Cmp(pool[j].ResourceAmount()); c != 0 {
			return c > 0
		}
		return pool[i].ResourceID() < pool[j].ResourceID()
	})

	picked := make(map[coin.Resource]bool)
	var out []coin.Resource
	for _, q := range coin.MergeQuantities(quantities) {
		if q.Amount.IsZero() {
			continue
		}
		total := amount.Zero()
		for _, r := range pool {
			if total.GTE(q.Amount) {
				break
			}
			if picked[r] || r.ResourceAsset() != q.AssetID {
				continue
			}
			picked[r] = true
			out = append(out, r)
			total = total.Add(r.ResourceAmount())
		}
		if total.LT(q.Amount) {
			return nil, fmt.Errorf("%w: asset %s has %s spendable, need %s",
				network.ErrInsufficientFunds, q.AssetID, total, q.Amount)
		}
	}
	if len(out) > n.opts.MaxInputs {
		return nil, fmt.Errorf("%w: %d resources needed, limit %d",
			network.ErrMaxInputsExceeded, len(out), n.opts.MaxInputs)
	}
	return out, nil
}

func ownerCoins(btx *bbolt.Tx, owner coin.Address) ([]*coin.Coin, error) {
	var out []*coin.Coin
	err := btx.Bucket(bucketCoins).ForEach(func(k, v []byte) error {
		c, err := decodeCoin(k, v)
		if err != nil {
			return err
		}
		if c.Owner == owner {
			out = append(out, c)
		}
		return nil
	})
	return out, err
}

func ownerMessages(btx *bbolt.Tx, owner coin.Address) ([]*coin.Message, error) {
	var out []*coin.Message
	err := btx.Bucket(bucketMessages).ForEach(func(k, v []byte) error {
		m, err := decodeMessage(k, v)
		if err != nil {
			return err
		}
		if m.Recipient == owner {
			out = append(out, m)
		}
		return nil
	})
	return out, err
}
