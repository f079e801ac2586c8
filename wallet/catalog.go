package wallet

import (
	"context"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
)

// GetCoins returns the account's coins, optionally filtered to one asset.
func (a *Account) GetCoins(ctx context.Context, assetID *coin.AssetID) ([]*coin.Coin, error) {
	p, err := a.Provider()
	if err != nil {
		return nil, err
	}
	coins, err := p.GetCoins(ctx, a.address, assetID)
	if err != nil {
		return nil, err
	}
	if err := checkLimit("coins", len(coins)); err != nil {
		return nil, err
	}
	return coins, nil
}

// GetMessages returns the messages redeemable by the account.
func (a *Account) GetMessages(ctx context.Context) ([]*coin.Message, error) {
	p, err := a.Provider()
	if err != nil {
		return nil, err
	}
	msgs, err := p.GetMessages(ctx, a.address)
	if err != nil {
		return nil, err
	}
	if err := checkLimit("messages", len(msgs)); err != nil {
		return nil, err
	}
	return msgs, nil
}

// GetBalances returns the account's per-asset totals.
func (a *Account) GetBalances(ctx context.Context) ([]coin.Quantity, error) {
	p, err := a.Provider()
	if err != nil {
		return nil, err
	}
	balances, err := p.GetBalances(ctx, a.address)
	if err != nil {
		return nil, err
	}
	if err := checkLimit("balances", len(balances)); err != nil {
		return nil, err
	}
	return balances, nil
}

// GetBalance returns the account's balance of assetID, or of the base
// asset when assetID is nil. An asset the account does not hold is 0.
func (a *Account) GetBalance(ctx context.Context, assetID *coin.AssetID) (amount.Amount, error) {
	asset := coin.BaseAssetID
	if assetID != nil {
		asset = *assetID
	}
	p, err := a.Provider()
	if err != nil {
		return amount.Zero(), err
	}
	balances, err := p.GetBalances(ctx, a.address)
	if err != nil {
		return amount.Zero(), err
	}
	return coin.Find(balances, asset), nil
}
