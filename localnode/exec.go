package localnode

import (
	"context"
	"encoding/hex"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
	"github.com/bitfsorg/libfund-go/network"
	"github.com/bitfsorg/libfund-go/tx"
)

// Gas schedule. Funding inputs, change outputs and variable outputs are
// not metered, so a quote taken before funding stays valid after it.
const (
	gasBase          = 1000
	gasPerCoinOutput = 100
	gasPerContract   = 500
	gasPerScriptByte = 1
)

// gasUsed returns the gas req consumes under the node's schedule.
func gasUsed(req *tx.Request) amount.Amount {
	gas := uint64(gasBase) + gasPerScriptByte*uint64(len(req.Script)+len(req.ScriptData))
	for _, o := range req.Outputs {
		if _, ok := o.(*tx.CoinOutput); ok {
			gas += gasPerCoinOutput
		}
	}
	for _, in := range req.Inputs {
		if _, ok := in.(*tx.ContractInput); ok {
			gas += gasPerContract
		}
	}
	return amount.New(gas)
}

// fee returns ceil(gas*price/factor).
func (n *Node) fee(gas, price amount.Amount) amount.Amount {
	f, err := gas.Mul(price).DivCeil(amount.New(n.opts.GasPriceFactor))
	if err != nil {
		// factor is never zero after Open
		panic(err)
	}
	return f
}

// quotePrice is the gas price a quote for req is computed with.
func (n *Node) quotePrice(req *tx.Request) amount.Amount {
	if !req.GasPrice.IsZero() {
		return req.GasPrice
	}
	return amount.New(n.opts.GasPrice)
}

// GetTransactionCost quotes req under the node's gas schedule.
// RequiredQuantities is the request's coin outputs plus forwarding.
func (n *Node) GetTransactionCost(ctx context.Context, req *tx.Request, forwarding []coin.Quantity) (*network.TransactionCost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request", tx.ErrNilParam)
	}
	gas := gasUsed(req)
	price := n.quotePrice(req)

	required := append(req.CoinOutputsQuantities(), forwarding...)
	var receipts []network.Receipt
	for _, o := range req.Outputs {
		if c, ok := o.(*tx.CoinOutput); ok {
			receipts = append(receipts, network.Receipt{Type: network.ReceiptTransfer, To: c.To, Amount: c.Amount, AssetID: c.AssetID})
		}
	}
	receipts = append(receipts, network.Receipt{Type: network.ReceiptScriptEnd, Amount: gas})

	return &network.TransactionCost{
		GasUsed:            gas,
		GasPrice:           price,
		MinGasPrice:        amount.New(n.opts.MinGasPrice),
		MinGas:             amount.New(gasBase),
		MaxGas:             gas,
		MinFee:             n.fee(amount.New(gasBase), price),
		MaxFee:             n.fee(gas, price),
		UsedFee:            n.fee(gas, price),
		RequiredQuantities: coin.MergeQuantities(required),
		Receipts:           receipts,
	}, nil
}

// EstimateTxDependencies adds a change output back to the owner for every
// asset req spends. The node has no contracts, so nothing else is needed.
func (n *Node) EstimateTxDependencies(ctx context.Context, req *tx.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req == nil {
		return fmt.Errorf("%w: request", tx.ErrNilParam)
	}
	for _, in := range req.Inputs {
		switch v := in.(type) {
		case *tx.CoinInput:
			req.AddChangeOutput(v.Owner, v.AssetID)
		case *tx.MessageInput:
			req.AddChangeOutput(v.Recipient, coin.BaseAssetID)
		}
	}
	return nil
}

// SendTransaction validates req and commits it atomically: inputs are
// spent, coin and change outputs become new coins.
func (n *Node) SendTransaction(ctx context.Context, req *tx.Request) (*network.TransactionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request", tx.ErrNilParam)
	}
	var ex *execution
	err := n.db.Update(func(btx *bbolt.Tx) error {
		var err error
		if ex, err = n.execute(btx, req); err != nil {
			return fmt.Errorf("%w: %w", network.ErrBroadcastRejected, err)
		}
		return ex.commit(btx, req)
	})
	if err != nil {
		return nil, err
	}
	txID := "0x" + hex.EncodeToString(ex.id[:])
	n.log.Info().
		Str("tx_id", txID).
		Int("inputs", len(req.Inputs)).
		Int("outputs", len(req.Outputs)).
		Str("fee", ex.fee.String()).
		Msg("transaction committed")
	return &network.TransactionResponse{ID: txID, Status: network.StatusSuccess, Receipts: ex.receipts}, nil
}

// Simulate validates and executes req in a read-only transaction.
func (n *Node) Simulate(ctx context.Context, req *tx.Request) (*network.CallResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request", tx.ErrNilParam)
	}
	var ex *execution
	err := n.db.View(func(btx *bbolt.Tx) error {
		var err error
		if ex, err = n.execute(btx, req); err != nil {
			return fmt.Errorf("%w: %w", network.ErrBroadcastRejected, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &network.CallResult{Receipts: ex.receipts}, nil
}

// execution is the validated effect of a request.
type execution struct {
	id       [coin.IDLen]byte
	height   uint32
	fee      amount.Amount
	change   map[coin.AssetID]amount.Amount
	receipts []network.Receipt
}

// execute checks req against the stored state and computes its effect.
func (n *Node) execute(btx *bbolt.Tx, req *tx.Request) (*execution, error) {
	id, err := req.ID(n.opts.ChainID)
	if err != nil {
		return nil, err
	}
	if req.GasPrice.LT(amount.New(n.opts.MinGasPrice)) {
		return nil, fmt.Errorf("%w: %s < %d", ErrGasPriceTooLow, req.GasPrice, n.opts.MinGasPrice)
	}
	gas := gasUsed(req)
	if req.GasLimit.LT(gas) {
		return nil, fmt.Errorf("%w: limit %s, used %s", ErrOutOfGas, req.GasLimit, gas)
	}

	ex := &execution{id: id, height: height(btx) + 1, fee: n.fee(gas, req.GasPrice)}

	in, err := checkInputs(btx, req)
	if err != nil {
		return nil, err
	}

	out := make(map[coin.AssetID]amount.Amount)
	for _, o := range req.Outputs {
		if c, ok := o.(*tx.CoinOutput); ok {
			out[c.AssetID] = out[c.AssetID].Add(c.Amount)
			ex.receipts = append(ex.receipts, network.Receipt{Type: network.ReceiptTransfer, To: c.To, Amount: c.Amount, AssetID: c.AssetID})
		}
	}
	if req.IsWithdrawal() {
		recipient, amt, err := req.DecodeWithdrawal()
		if err != nil {
			return nil, err
		}
		out[coin.BaseAssetID] = out[coin.BaseAssetID].Add(amt)
		ex.receipts = append(ex.receipts, network.Receipt{
			Type:    network.ReceiptMessageOut,
			To:      recipient,
			Amount:  amt,
			AssetID: coin.BaseAssetID,
			Nonce:   coin.Nonce(deriveID(id[:], []byte("withdraw"))),
		})
	}
	out[coin.BaseAssetID] = out[coin.BaseAssetID].Add(ex.fee)

	for asset, need := range out {
		if in[asset].LT(need) {
			return nil, fmt.Errorf("%w: asset %s inputs %s, outputs and fee %s", ErrUnbalanced, asset, in[asset], need)
		}
	}
	ex.change = make(map[coin.AssetID]amount.Amount, len(in))
	for asset, have := range in {
		surplus, _ := have.Sub(out[asset])
		if surplus.IsZero() {
			continue
		}
		if req.ChangeOutputFor(asset) == nil {
			return nil, fmt.Errorf("%w: surplus %s of asset %s has no change output", ErrUnbalanced, surplus, asset)
		}
		ex.change[asset] = surplus
	}
	ex.receipts = append(ex.receipts, network.Receipt{Type: network.ReceiptScriptEnd, Amount: gas})
	return ex, nil
}

// checkInputs verifies every coin and message input against storage and
// returns the per-asset input totals.
func checkInputs(btx *bbolt.Tx, req *tx.Request) (map[coin.AssetID]amount.Amount, error) {
	totals := make(map[coin.AssetID]amount.Amount)
	seenCoins := make(map[coin.UTXOID]bool)
	seenMsgs := make(map[coin.Nonce]bool)
	for i, in := range req.Inputs {
		switch v := in.(type) {
		case *tx.CoinInput:
			if seenCoins[v.ID] {
				return nil, fmt.Errorf("%w: coin %s", ErrDuplicateInput, v.ID)
			}
			seenCoins[v.ID] = true
			if int(v.WitnessIndex) >= len(req.Witnesses) {
				return nil, fmt.Errorf("%w: input %d", ErrMissingWitness, i)
			}
			stored, err := getCoin(btx, v.ID)
			if err != nil {
				return nil, err
			}
			if stored == nil {
				return nil, fmt.Errorf("%w: coin %s", ErrInputNotFound, v.ID)
			}
			if stored.Owner != v.Owner || stored.AssetID != v.AssetID || !stored.Amount.Equal(v.Amount) {
				return nil, fmt.Errorf("%w: coin %s", ErrInputMismatch, v.ID)
			}
			totals[v.AssetID] = totals[v.AssetID].Add(v.Amount)
		case *tx.MessageInput:
			if seenMsgs[v.Nonce] {
				return nil, fmt.Errorf("%w: message %s", ErrDuplicateInput, v.Nonce)
			}
			seenMsgs[v.Nonce] = true
			if int(v.WitnessIndex) >= len(req.Witnesses) {
				return nil, fmt.Errorf("%w: input %d", ErrMissingWitness, i)
			}
			stored, err := getMessage(btx, v.Nonce)
			if err != nil {
				return nil, err
			}
			if stored == nil {
				return nil, fmt.Errorf("%w: message %s", ErrInputNotFound, v.Nonce)
			}
			if stored.Recipient != v.Recipient || !stored.Amount.Equal(v.Amount) {
				return nil, fmt.Errorf("%w: message %s", ErrInputMismatch, v.Nonce)
			}
			totals[coin.BaseAssetID] = totals[coin.BaseAssetID].Add(v.Amount)
		}
	}
	return totals, nil
}

// commit spends the inputs of req and stores its outputs.
func (ex *execution) commit(btx *bbolt.Tx, req *tx.Request) error {
	coins := btx.Bucket(bucketCoins)
	msgs := btx.Bucket(bucketMessages)
	for _, in := range req.Inputs {
		switch v := in.(type) {
		case *tx.CoinInput:
			if err := coins.Delete(v.ID.Bytes()); err != nil {
				return err
			}
		case *tx.MessageInput:
			if err := msgs.Delete(v.Nonce[:]); err != nil {
				return err
			}
		}
	}

	for i, o := range req.Outputs {
		id := coin.UTXOID{TxID: ex.id, OutputIndex: uint16(i)}
		var c *coin.Coin
		switch v := o.(type) {
		case *tx.CoinOutput:
			if !v.Amount.IsZero() {
				c = &coin.Coin{ID: id, Owner: v.To, AssetID: v.AssetID, Amount: v.Amount}
			}
		case *tx.ChangeOutput:
			if amt, ok := ex.change[v.AssetID]; ok {
				c = &coin.Coin{ID: id, Owner: v.To, AssetID: v.AssetID, Amount: amt}
				delete(ex.change, v.AssetID)
			}
		}
		if c == nil {
			continue
		}
		c.BlockCreated = ex.height
		if err := putCoin(btx, c); err != nil {
			return err
		}
	}
	return bumpHeight(btx)
}
