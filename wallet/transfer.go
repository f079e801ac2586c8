package wallet

import (
	"context"
	"fmt"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
	"github.com/bitfsorg/libfund-go/network"
	"github.com/bitfsorg/libfund-go/tx"
)

// TxParams overrides request parameters. Nil fields are filled from the
// cost quote.
type TxParams struct {
	GasPrice *amount.Amount
	GasLimit *amount.Amount
	Maturity uint32
}

// Transfer sends amt of assetID (the base asset when nil) to destination.
// It quotes the request, funds it for the quote's required quantities and
// max fee, then dispatches it.
func (a *Account) Transfer(ctx context.Context, destination coin.Address, amt amount.Amount, assetID *coin.AssetID, params *TxParams) (*network.TransactionResponse, error) {
	if amt.IsZero() {
		return nil, fmt.Errorf("%w: transfer amount must be greater than zero", amount.ErrInvalidAmount)
	}
	p, err := a.Provider()
	if err != nil {
		return nil, err
	}
	asset := coin.BaseAssetID
	if assetID != nil {
		asset = *assetID
	}

	req := tx.NewScriptRequest(a.requestParams(params))
	req.AddCoinOutput(destination, amt, asset)
	a.stage("requested", req)

	if err := a.quoteAndFund(ctx, p, req, params, nil); err != nil {
		return nil, err
	}
	return a.send(ctx, p, req)
}

// WithdrawToBaseLayer withdraws amt of the base asset to recipient on the
// base layer.
func (a *Account) WithdrawToBaseLayer(ctx context.Context, recipient coin.Address, amt amount.Amount, params *TxParams) (*network.TransactionResponse, error) {
	if amt.IsZero() {
		return nil, fmt.Errorf("%w: withdrawal amount must be greater than zero", amount.ErrInvalidAmount)
	}
	p, err := a.Provider()
	if err != nil {
		return nil, err
	}
	req, err := tx.NewWithdrawRequest(recipient, amt, a.requestParams(params))
	if err != nil {
		return nil, err
	}
	a.stage("requested", req)

	forwarding := []coin.Quantity{{AssetID: coin.BaseAssetID, Amount: amt}}
	if err := a.quoteAndFund(ctx, p, req, params, forwarding); err != nil {
		return nil, err
	}
	return a.send(ctx, p, req)
}

// requestParams builds the parameters of a new request. The gas limit
// defaults to the network's limit so the quote is not cut short.
func (a *Account) requestParams(params *TxParams) tx.Params {
	p := tx.Params{GasLimit: amount.New(a.network.DefaultGasLimit)}
	if params == nil {
		return p
	}
	if params.GasPrice != nil {
		p.GasPrice = *params.GasPrice
	}
	if params.GasLimit != nil {
		p.GasLimit = *params.GasLimit
	}
	p.Maturity = params.Maturity
	return p
}

// quoteAndFund asks p for a cost quote, settles gas price and limit
// against it, and funds req.
func (a *Account) quoteAndFund(ctx context.Context, p network.Provider, req *tx.Request, params *TxParams, forwarding []coin.Quantity) error {
	cost, err := p.GetTransactionCost(ctx, req, forwarding)
	if err != nil {
		return err
	}
	a.stage("cost_quoted", req)

	if params != nil && params.GasPrice != nil {
		if params.GasPrice.LT(cost.MinGasPrice) {
			return fmt.Errorf("%w: %s, minimum is %s", ErrGasPriceTooLow, *params.GasPrice, cost.MinGasPrice)
		}
		req.GasPrice = *params.GasPrice
	} else {
		req.GasPrice = cost.MinGasPrice
	}
	if params != nil && params.GasLimit != nil {
		if params.GasLimit.LT(cost.GasUsed) {
			return fmt.Errorf("%w: %s, request uses %s", ErrGasLimitTooLow, *params.GasLimit, cost.GasUsed)
		}
		req.GasLimit = *params.GasLimit
	} else {
		req.GasLimit = cost.GasUsed
	}

	if err := a.fund(ctx, p, req, cost.RequiredQuantities, cost.MaxFee); err != nil {
		return err
	}
	a.stage("funded", req)
	return nil
}

// SendTransaction normalizes like, estimates its dependencies once and
// submits it.
func (a *Account) SendTransaction(ctx context.Context, like tx.RequestLike) (*network.TransactionResponse, error) {
	p, err := a.Provider()
	if err != nil {
		return nil, err
	}
	return a.send(ctx, p, like)
}

func (a *Account) send(ctx context.Context, p network.Provider, like tx.RequestLike) (*network.TransactionResponse, error) {
	req, err := tx.Transactionify(like)
	if err != nil {
		return nil, err
	}
	if err := p.EstimateTxDependencies(ctx, req); err != nil {
		a.releaseLocks(ctx, req)
		return nil, err
	}
	a.stage("dependencies_estimated", req)

	resp, err := p.SendTransaction(ctx, req)
	if err != nil {
		a.releaseLocks(ctx, req)
		return nil, err
	}
	// Spent resources leave the catalog; their reservations just expire.
	a.takeLocks(req)
	a.log.Debug().Str("stage", "dispatched").Str("tx_id", resp.ID).Str("status", string(resp.Status)).Msg("transfer stage")
	return resp, nil
}

// SimulateTransaction normalizes like, estimates its dependencies once and
// executes it without committing. Reservations taken while funding like
// are kept until SendTransaction or Release.
func (a *Account) SimulateTransaction(ctx context.Context, like tx.RequestLike) (*network.CallResult, error) {
	p, err := a.Provider()
	if err != nil {
		return nil, err
	}
	req, err := tx.Transactionify(like)
	if err != nil {
		return nil, err
	}
	if err := p.EstimateTxDependencies(ctx, req); err != nil {
		return nil, err
	}
	a.stage("dependencies_estimated", req)
	return p.Simulate(ctx, req)
}
