package indexer

import (
	"context"
	"fmt"

	"github.com/bitfsorg/libfund-go/coin"
)

// PutCoin indexes c as unspent. Re-indexing a coin is a no-op.
func (c *Catalog) PutCoin(ctx context.Context, co *coin.Coin) error {
	_, err := c.pool.Exec(ctx, `INSERT INTO coins (utxo_id, owner, asset_id, amount, maturity, block_created)
		VALUES ($1, $2, $3, $4::numeric, $5, $6) ON CONFLICT (utxo_id) DO NOTHING`,
		co.ID.String(), co.Owner.String(), co.AssetID.String(), co.Amount.String(),
		int32(co.Maturity), int32(co.BlockCreated))
	if err != nil {
		return fmt.Errorf("indexer: insert coin %s: %w", co.ID, err)
	}
	return nil
}

// PutMessage indexes m as unspent. Re-indexing a message is a no-op.
func (c *Catalog) PutMessage(ctx context.Context, m *coin.Message) error {
	data := m.Data
	if data == nil {
		data = []byte{}
	}
	_, err := c.pool.Exec(ctx, `INSERT INTO messages (nonce, sender, recipient, amount, data, da_height)
		VALUES ($1, $2, $3, $4::numeric, $5, $6) ON CONFLICT (nonce) DO NOTHING`,
		m.Nonce.String(), m.Sender.String(), m.Recipient.String(), m.Amount.String(),
		data, int64(m.DAHeight))
	if err != nil {
		return fmt.Errorf("indexer: insert message %s: %w", m.Nonce, err)
	}
	return nil
}

// MarkSpent flags the resources in ids as spent so they leave the catalog.
func (c *Catalog) MarkSpent(ctx context.Context, ids *coin.ExcludedIDs) error {
	if ids.Len() == 0 {
		return nil
	}
	coins := make([]string, 0, len(ids.UTXOs))
	for _, id := range ids.UTXOs {
		coins = append(coins, id.String())
	}
	msgs := make([]string, 0, len(ids.Messages))
	for _, n := range ids.Messages {
		msgs = append(msgs, n.String())
	}
	tag, err := c.pool.Exec(ctx, `UPDATE coins SET spent = TRUE WHERE utxo_id = ANY($1) AND NOT spent`, coins)
	if err != nil {
		return fmt.Errorf("indexer: mark coins spent: %w", err)
	}
	n := tag.RowsAffected()
	tag, err = c.pool.Exec(ctx, `UPDATE messages SET spent = TRUE WHERE nonce = ANY($1) AND NOT spent`, msgs)
	if err != nil {
		return fmt.Errorf("indexer: mark messages spent: %w", err)
	}
	n += tag.RowsAffected()
	if int(n) != ids.Len() {
		return fmt.Errorf("%w: %d of %d resources updated", ErrNotFound, n, ids.Len())
	}
	c.log.Debug().Int64("resources", n).Msg("marked spent")
	return nil
}
