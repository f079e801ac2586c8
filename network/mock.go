package network

import (
	"context"

	"github.com/bitfsorg/libfund-go/coin"
	"github.com/bitfsorg/libfund-go/tx"
)

// MockProvider is a test double for Provider.
// All function fields must be set before the corresponding method is called.
type MockProvider struct {
	GetCoinsFn               func(ctx context.Context, owner coin.Address, assetID *coin.AssetID) ([]*coin.Coin, error)
	GetMessagesFn            func(ctx context.Context, owner coin.Address) ([]*coin.Message, error)
	GetBalancesFn            func(ctx context.Context, owner coin.Address) ([]coin.Quantity, error)
	GetResourcesToSpendFn    func(ctx context.Context, owner coin.Address, quantities []coin.Quantity, excluded *coin.ExcludedIDs) ([]coin.Resource, error)
	GetTransactionCostFn     func(ctx context.Context, req *tx.Request, forwarding []coin.Quantity) (*TransactionCost, error)
	EstimateTxDependenciesFn func(ctx context.Context, req *tx.Request) error
	SendTransactionFn        func(ctx context.Context, req *tx.Request) (*TransactionResponse, error)
	SimulateFn               func(ctx context.Context, req *tx.Request) (*CallResult, error)
}

var _ Provider = (*MockProvider)(nil)

func (m *MockProvider) GetCoins(ctx context.Context, owner coin.Address, assetID *coin.AssetID) ([]*coin.Coin, error) {
	return m.GetCoinsFn(ctx, owner, assetID)
}
func (m *MockProvider) GetMessages(ctx context.Context, owner coin.Address) ([]*coin.Message, error) {
	return m.GetMessagesFn(ctx, owner)
}
func (m *MockProvider) GetBalances(ctx context.Context, owner coin.Address) ([]coin.Quantity, error) {
	return m.GetBalancesFn(ctx, owner)
}
func (m *MockProvider) GetResourcesToSpend(ctx context.Context, owner coin.Address, quantities []coin.Quantity, excluded *coin.ExcludedIDs) ([]coin.Resource, error) {
	return m.GetResourcesToSpendFn(ctx, owner, quantities, excluded)
}
func (m *MockProvider) GetTransactionCost(ctx context.Context, req *tx.Request, forwarding []coin.Quantity) (*TransactionCost, error) {
	return m.GetTransactionCostFn(ctx, req, forwarding)
}
func (m *MockProvider) EstimateTxDependencies(ctx context.Context, req *tx.Request) error {
	return m.EstimateTxDependenciesFn(ctx, req)
}
func (m *MockProvider) SendTransaction(ctx context.Context, req *tx.Request) (*TransactionResponse, error) {
	return m.SendTransactionFn(ctx, req)
}
func (m *MockProvider) Simulate(ctx context.Context, req *tx.Request) (*CallResult, error) {
	return m.SimulateFn(ctx, req)
}
