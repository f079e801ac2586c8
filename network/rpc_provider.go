package network

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
	"github.com/bitfsorg/libfund-go/tx"
)

// Compile-time interface check.
var _ Provider = (*RPCClient)(nil)

// wireResource is the tagged JSON form of a coin or message returned by
// resourcesToSpend.
type wireResource struct {
	Type string `json:"type"`

	// coin
	ID           coin.UTXOID  `json:"id"`
	Owner        coin.Address `json:"owner"`
	AssetID      coin.AssetID `json:"assetId"`
	Maturity     uint32       `json:"maturity"`
	BlockCreated uint32       `json:"blockCreated"`

	// message
	Nonce     coin.Nonce   `json:"nonce"`
	Sender    coin.Address `json:"sender"`
	Recipient coin.Address `json:"recipient"`
	Data      []byte       `json:"data"`
	DAHeight  uint64       `json:"daHeight"`

	Amount amount.Amount `json:"amount"`
}

func (w wireResource) resource() (coin.Resource, error) {
	switch w.Type {
	case "coin":
		return &coin.Coin{
			ID:           w.ID,
			Owner:        w.Owner,
			AssetID:      w.AssetID,
			Amount:       w.Amount,
			Maturity:     w.Maturity,
			BlockCreated: w.BlockCreated,
		}, nil
	case "message":
		return &coin.Message{
			Nonce:     w.Nonce,
			Sender:    w.Sender,
			Recipient: w.Recipient,
			Amount:    w.Amount,
			Data:      w.Data,
			DAHeight:  w.DAHeight,
		}, nil
	}
	return nil, fmt.Errorf("%w: resource type %q", ErrInvalidResponse, w.Type)
}

// wireTx carries a request over the wire: the canonical encoding plus the
// witnesses, which the encoding leaves out.
type wireTx struct {
	Transaction string   `json:"transaction"`
	Witnesses   []string `json:"witnesses"`
}

func encodeTx(req *tx.Request) (wireTx, error) {
	if req == nil {
		return wireTx{}, fmt.Errorf("%w: request", tx.ErrNilParam)
	}
	b, err := req.Bytes()
	if err != nil {
		return wireTx{}, err
	}
	w := wireTx{Transaction: hex.EncodeToString(b), Witnesses: make([]string, len(req.Witnesses))}
	for i, wit := range req.Witnesses {
		w.Witnesses[i] = hex.EncodeToString(wit)
	}
	return w, nil
}

// dependencies is the estimateDependencies result.
type dependencies struct {
	VariableOutputs int            `json:"variableOutputs"`
	ContractIDs     []coin.AssetID `json:"contractIds"`
}

// GetCoins calls `coins [owner, assetId|null]`.
func (c *RPCClient) GetCoins(ctx context.Context, owner coin.Address, assetID *coin.AssetID) ([]*coin.Coin, error) {
	var asset interface{}
	if assetID != nil {
		asset = assetID.String()
	}
	var coins []*coin.Coin
	if err := c.Call(ctx, "coins", []interface{}{owner.String(), asset}, &coins); err != nil {
		return nil, err
	}
	return coins, nil
}

// GetMessages calls `messages [owner]`.
func (c *RPCClient) GetMessages(ctx context.Context, owner coin.Address) ([]*coin.Message, error) {
	var msgs []*coin.Message
	if err := c.Call(ctx, "messages", []interface{}{owner.String()}, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// GetBalances calls `balances [owner]`.
func (c *RPCClient) GetBalances(ctx context.Context, owner coin.Address) ([]coin.Quantity, error) {
	var qs []coin.Quantity
	if err := c.Call(ctx, "balances", []interface{}{owner.String()}, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// GetResourcesToSpend calls `resourcesToSpend [owner, quantities, excluded]`.
func (c *RPCClient) GetResourcesToSpend(ctx context.Context, owner coin.Address, quantities []coin.Quantity, excluded *coin.ExcludedIDs) ([]coin.Resource, error) {
	if excluded == nil {
		excluded = &coin.ExcludedIDs{}
	}
	if quantities == nil {
		quantities = []coin.Quantity{}
	}
	var wire []wireResource
	if err := c.Call(ctx, "resourcesToSpend", []interface{}{owner.String(), quantities, excluded}, &wire); err != nil {
		return nil, err
	}
	resources := make([]coin.Resource, len(wire))
	for i, w := range wire {
		r, err := w.resource()
		if err != nil {
			return nil, err
		}
		resources[i] = r
	}
	return resources, nil
}

// GetTransactionCost calls `transactionCost [tx, forwarding]`.
func (c *RPCClient) GetTransactionCost(ctx context.Context, req *tx.Request, forwarding []coin.Quantity) (*TransactionCost, error) {
	w, err := encodeTx(req)
	if err != nil {
		return nil, err
	}
	if forwarding == nil {
		forwarding = []coin.Quantity{}
	}
	var cost TransactionCost
	if err := c.Call(ctx, "transactionCost", []interface{}{w, forwarding}, &cost); err != nil {
		return nil, err
	}
	return &cost, nil
}

// EstimateTxDependencies calls `estimateDependencies [tx]` and applies the
// missing variable outputs and contract inputs to req.
func (c *RPCClient) EstimateTxDependencies(ctx context.Context, req *tx.Request) error {
	w, err := encodeTx(req)
	if err != nil {
		return err
	}
	var deps dependencies
	if err := c.Call(ctx, "estimateDependencies", []interface{}{w}, &deps); err != nil {
		return err
	}
	if deps.VariableOutputs < 0 {
		return fmt.Errorf("%w: negative variable output count", ErrInvalidResponse)
	}
	req.AddVariableOutputs(deps.VariableOutputs)
	for _, id := range deps.ContractIDs {
		if err := req.AddContractInputAndOutput(id); err != nil {
			return err
		}
	}
	return nil
}

// SendTransaction calls `submit [tx]`.
func (c *RPCClient) SendTransaction(ctx context.Context, req *tx.Request) (*TransactionResponse, error) {
	w, err := encodeTx(req)
	if err != nil {
		return nil, err
	}
	var resp TransactionResponse
	if err := c.Call(ctx, "submit", []interface{}{w}, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: submit returned no transaction id", ErrInvalidResponse)
	}
	return &resp, nil
}

// Simulate calls `dryRun [tx]`.
func (c *RPCClient) Simulate(ctx context.Context, req *tx.Request) (*CallResult, error) {
	w, err := encodeTx(req)
	if err != nil {
		return nil, err
	}
	var res CallResult
	if err := c.Call(ctx, "dryRun", []interface{}{w}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
