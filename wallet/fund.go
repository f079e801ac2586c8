package wallet

import (
	"context"
	"fmt"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
	"github.com/bitfsorg/libfund-go/network"
	"github.com/bitfsorg/libfund-go/tx"
)

// Fund adds inputs to req that cover quantities plus fee of the base
// asset, with a change output per funded asset back to the account.
// Resources already used by req are not selected again. With a Reserver,
// the selection is reserved until the request is dispatched.
func (a *Account) Fund(ctx context.Context, req *tx.Request, quantities []coin.Quantity, fee amount.Amount) error {
	p, err := a.Provider()
	if err != nil {
		return err
	}
	return a.fund(ctx, p, req, quantities, fee)
}

func (a *Account) fund(ctx context.Context, p network.ResourceCatalog, req *tx.Request, quantities []coin.Quantity, fee amount.Amount) error {
	if req == nil {
		return fmt.Errorf("%w: request", tx.ErrNilParam)
	}

	required := coin.AddAmountToAsset(coin.AddAmountParams{
		AssetID:        coin.BaseAssetID,
		Amount:         fee,
		CoinQuantities: quantities,
	})

	excluded := req.UsedResources()
	if a.reserver != nil {
		reserved, err := a.reserver.Excluded(ctx, a.address)
		if err != nil {
			return fmt.Errorf("wallet: reserved resources: %w", err)
		}
		excluded = excluded.Merge(reserved)
	}

	resources, err := a.selectResources(ctx, p, required, excluded)
	if err != nil {
		return err
	}

	var lockID string
	if a.reserver != nil && len(resources) > 0 {
		lockID, err = a.reserver.Reserve(ctx, a.address, resources)
		if err != nil {
			return fmt.Errorf("wallet: reserve resources: %w", err)
		}
	}

	if err := req.AddResources(resources); err != nil {
		if lockID != "" {
			if rerr := a.reserver.Release(ctx, a.address, lockID); rerr != nil {
				a.log.Warn().Err(rerr).Str("lock_id", lockID).Msg("release reservation")
			}
		}
		return err
	}
	if lockID != "" {
		a.holdLock(req, lockID)
	}

	a.log.Debug().
		Int("resources", len(resources)).
		Int("excluded", excluded.Len()).
		Msg("funded request")
	return nil
}
