package tx

import (
	"fmt"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
)

// Type is the transaction type.
type Type uint8

const (
	// TypeScript executes a script; the only type this package builds.
	TypeScript Type = 0
	// TypeCreate deploys a contract.
	TypeCreate Type = 1
)

// MaxWitnesses is the number of witness slots a transaction can carry.
const MaxWitnesses = 255

// Params are the caller-tunable fields of a new request.
type Params struct {
	GasPrice   amount.Amount
	GasLimit   amount.Amount
	Maturity   uint32
	Script     []byte
	ScriptData []byte
}

// Request is a script transaction under assembly. It is not safe for
// concurrent use; the caller owns it until it is handed to a provider.
type Request struct {
	GasPrice   amount.Amount
	GasLimit   amount.Amount
	Maturity   uint32
	Script     []byte
	ScriptData []byte
	Inputs     []Input
	Outputs    []Output
	Witnesses  [][]byte
}

// NewScriptRequest creates an empty script request.
func NewScriptRequest(p Params) *Request {
	return &Request{
		GasPrice:   p.GasPrice,
		GasLimit:   p.GasLimit,
		Maturity:   p.Maturity,
		Script:     append([]byte(nil), p.Script...),
		ScriptData: append([]byte(nil), p.ScriptData...),
	}
}

// Type returns TypeScript.
func (r *Request) Type() Type { return TypeScript }

// AddCoinOutput sends amt of asset to `to`.
func (r *Request) AddCoinOutput(to coin.Address, amt amount.Amount, asset coin.AssetID) {
	r.Outputs = append(r.Outputs, &CoinOutput{To: to, Amount: amt, AssetID: asset})
}

// AddCoinOutputs appends one coin output per quantity.
func (r *Request) AddCoinOutputs(to coin.Address, qs []coin.Quantity) {
	for _, q := range qs {
		r.AddCoinOutput(to, q.Amount, q.AssetID)
	}
}

// AddChangeOutput adds a change output for asset unless one already exists.
func (r *Request) AddChangeOutput(to coin.Address, asset coin.AssetID) {
	for _, o := range r.Outputs {
		if c, ok := o.(*ChangeOutput); ok && c.AssetID == asset {
			return
		}
	}
	r.Outputs = append(r.Outputs, &ChangeOutput{To: to, AssetID: asset})
}

// AddVariableOutputs appends n variable outputs.
func (r *Request) AddVariableOutputs(n int) {
	for i := 0; i < n; i++ {
		r.Outputs = append(r.Outputs, &VariableOutput{})
	}
}

// AddContractInputAndOutput references contractID, once.
func (r *Request) AddContractInputAndOutput(contractID [coin.IDLen]byte) error {
	for _, in := range r.Inputs {
		if c, ok := in.(*ContractInput); ok && c.ContractID == contractID {
			return nil
		}
	}
	idx := len(r.Inputs)
	if idx > 255 {
		return fmt.Errorf("%w: contract input index %d overflows u8", ErrInvalidParams, idx)
	}
	r.Inputs = append(r.Inputs, &ContractInput{ContractID: contractID})
	r.Outputs = append(r.Outputs, &ContractOutput{InputIndex: uint8(idx)})
	return nil
}

// witnessIndex returns the witness slot already used by owner, or
// allocates a new empty one.
func (r *Request) witnessIndex(owner coin.Address) (uint8, error) {
	for _, in := range r.Inputs {
		switch v := in.(type) {
		case *CoinInput:
			if v.Owner == owner {
				return v.WitnessIndex, nil
			}
		case *MessageInput:
			if v.Recipient == owner {
				return v.WitnessIndex, nil
			}
		}
	}
	if len(r.Witnesses) >= MaxWitnesses {
		return 0, fmt.Errorf("%w: limit %d", ErrTooManyWitnesses, MaxWitnesses)
	}
	r.Witnesses = append(r.Witnesses, []byte{})
	return uint8(len(r.Witnesses) - 1), nil
}

// HasResource reports whether res is already an input.
func (r *Request) HasResource(res coin.Resource) bool {
	for _, in := range r.Inputs {
		switch v := in.(type) {
		case *CoinInput:
			if c, ok := res.(*coin.Coin); ok && c.ID == v.ID {
				return true
			}
		case *MessageInput:
			if m, ok := res.(*coin.Message); ok && m.Nonce == v.Nonce {
				return true
			}
		}
	}
	return false
}

// AddResource adds res as an input together with a change output for its
// asset back to its owner. Resources already present are skipped.
func (r *Request) AddResource(res coin.Resource) error {
	if res == nil {
		return fmt.Errorf("%w: resource", ErrNilParam)
	}
	if r.HasResource(res) {
		return nil
	}
	owner := res.ResourceOwner()
	wi, err := r.witnessIndex(owner)
	if err != nil {
		return err
	}
	switch v := res.(type) {
	case *coin.Coin:
		r.Inputs = append(r.Inputs, &CoinInput{
			ID:           v.ID,
			Owner:        v.Owner,
			Amount:       v.Amount,
			AssetID:      v.AssetID,
			WitnessIndex: wi,
			Maturity:     v.Maturity,
		})
	case *coin.Message:
		r.Inputs = append(r.Inputs, &MessageInput{
			Nonce:        v.Nonce,
			Sender:       v.Sender,
			Recipient:    v.Recipient,
			Amount:       v.Amount,
			Data:         append([]byte(nil), v.Data...),
			WitnessIndex: wi,
		})
	default:
		return fmt.Errorf("%w: %T", coin.ErrUnknownResource, res)
	}
	r.AddChangeOutput(owner, res.ResourceAsset())
	return nil
}

// AddResources adds every resource in rs, stopping at the first error.
func (r *Request) AddResources(rs []coin.Resource) error {
	for i, res := range rs {
		if err := r.AddResource(res); err != nil {
			return fmt.Errorf("tx: resource[%d]: %w", i, err)
		}
	}
	return nil
}

// UsedResources returns the ids of coins and messages already spent by r.
func (r *Request) UsedResources() *coin.ExcludedIDs {
	used := &coin.ExcludedIDs{UTXOs: []coin.UTXOID{}, Messages: []coin.Nonce{}}
	for _, in := range r.Inputs {
		switch v := in.(type) {
		case *CoinInput:
			used.UTXOs = append(used.UTXOs, v.ID)
		case *MessageInput:
			used.Messages = append(used.Messages, v.Nonce)
		}
	}
	return used
}

// CoinOutputsQuantities returns the per-asset totals of the coin outputs.
func (r *Request) CoinOutputsQuantities() []coin.Quantity {
	var qs []coin.Quantity
	for _, o := range r.Outputs {
		if c, ok := o.(*CoinOutput); ok {
			qs = append(qs, coin.Quantity{AssetID: c.AssetID, Amount: c.Amount})
		}
	}
	return coin.MergeQuantities(qs)
}

// InputTotals returns the per-asset totals of coin and message inputs.
func (r *Request) InputTotals() map[coin.AssetID]amount.Amount {
	totals := make(map[coin.AssetID]amount.Amount)
	for _, in := range r.Inputs {
		switch v := in.(type) {
		case *CoinInput:
			totals[v.AssetID] = totals[v.AssetID].Add(v.Amount)
		case *MessageInput:
			totals[coin.BaseAssetID] = totals[coin.BaseAssetID].Add(v.Amount)
		}
	}
	return totals
}

// ChangeOutputFor returns the change output for asset, or nil.
func (r *Request) ChangeOutputFor(asset coin.AssetID) *ChangeOutput {
	for _, o := range r.Outputs {
		if c, ok := o.(*ChangeOutput); ok && c.AssetID == asset {
			return c
		}
	}
	return nil
}
