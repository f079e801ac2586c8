package network

import (
	"context"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
	"github.com/bitfsorg/libfund-go/tx"
)

//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks github.com/bitfsorg/libfund-go/network Provider

// ResourceCatalog answers queries about the resources an owner can spend.
type ResourceCatalog interface {
	// GetCoins returns the owner's coins, optionally filtered to one asset.
	GetCoins(ctx context.Context, owner coin.Address, assetID *coin.AssetID) ([]*coin.Coin, error)

	// GetMessages returns the bridged messages redeemable by owner.
	GetMessages(ctx context.Context, owner coin.Address) ([]*coin.Message, error)

	// GetBalances returns the owner's per-asset coin totals.
	GetBalances(ctx context.Context, owner coin.Address) ([]coin.Quantity, error)

	// GetResourcesToSpend returns resources of owner that cover quantities,
	// never returning anything listed in excluded. Returns
	// ErrInsufficientFunds when the quantities cannot be covered.
	GetResourcesToSpend(ctx context.Context, owner coin.Address, quantities []coin.Quantity, excluded *coin.ExcludedIDs) ([]coin.Resource, error)
}

// TxService quotes, completes and dispatches transaction requests.
type TxService interface {
	// GetTransactionCost quotes gas and fees for req. forwarding lists
	// quantities the script moves out of the transaction (withdrawals) and
	// is folded into the returned RequiredQuantities.
	GetTransactionCost(ctx context.Context, req *tx.Request, forwarding []coin.Quantity) (*TransactionCost, error)

	// EstimateTxDependencies adds the outputs and contract inputs req needs
	// in order to execute.
	EstimateTxDependencies(ctx context.Context, req *tx.Request) error

	// SendTransaction submits req to the network.
	SendTransaction(ctx context.Context, req *tx.Request) (*TransactionResponse, error)

	// Simulate executes req without committing it.
	Simulate(ctx context.Context, req *tx.Request) (*CallResult, error)
}

// Provider is the full network collaborator of an account.
type Provider interface {
	ResourceCatalog
	TxService
}

// Composite joins a catalog and a transaction service into a Provider,
// e.g. an indexer for queries with a node for dispatch.
type Composite struct {
	ResourceCatalog
	TxService
}

// Compile-time interface check.
var _ Provider = Composite{}

// TransactionCost is the node's quote for a request.
type TransactionCost struct {
	GasUsed            amount.Amount   `json:"gasUsed"`
	GasPrice           amount.Amount   `json:"gasPrice"`
	MinGasPrice        amount.Amount   `json:"minGasPrice"`
	MinGas             amount.Amount   `json:"minGas"`
	MaxGas             amount.Amount   `json:"maxGas"`
	MinFee             amount.Amount   `json:"minFee"`
	MaxFee             amount.Amount   `json:"maxFee"`
	UsedFee            amount.Amount   `json:"usedFee"`
	RequiredQuantities []coin.Quantity `json:"requiredQuantities"`
	Receipts           []Receipt       `json:"receipts"`
}

// TxStatus is the outcome of a submitted transaction.
type TxStatus string

const (
	StatusSubmitted TxStatus = "submitted"
	StatusSuccess   TxStatus = "success"
	StatusFailure   TxStatus = "failure"
)

// TransactionResponse is returned by SendTransaction.
type TransactionResponse struct {
	ID       string    `json:"id"`
	Status   TxStatus  `json:"status"`
	Receipts []Receipt `json:"receipts"`
}

// CallResult is returned by Simulate.
type CallResult struct {
	Receipts []Receipt `json:"receipts"`
}

// ReceiptType identifies what a receipt records.
type ReceiptType string

const (
	ReceiptTransfer   ReceiptType = "transfer"
	ReceiptMessageOut ReceiptType = "messageOut"
	ReceiptReturn     ReceiptType = "return"
	ReceiptScriptEnd  ReceiptType = "scriptResult"
)

// Receipt is one execution record of a transaction. Fields not relevant to
// Type are zero.
type Receipt struct {
	Type    ReceiptType   `json:"type"`
	Amount  amount.Amount `json:"amount"`
	AssetID coin.AssetID  `json:"assetId"`
	To      coin.Address  `json:"to"`
	Nonce   coin.Nonce    `json:"nonce"`
	Data    []byte        `json:"data,omitempty"`
}
