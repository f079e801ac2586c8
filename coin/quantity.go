package coin

import "github.com/bitfsorg/libfund-go/amount"

// Quantity is a requirement for, or holding of, one asset.
type Quantity struct {
	AssetID AssetID       `json:"assetId"`
	Amount  amount.Amount `json:"amount"`
}

// NewQuantity returns a Quantity of v units of asset.
func NewQuantity(v uint64, asset AssetID) Quantity {
	return Quantity{AssetID: asset, Amount: amount.New(v)}
}

// ParseQuantity builds a Quantity from decimal text, rounding fractions up.
func ParseQuantity(text string, asset AssetID) (Quantity, error) {
	a, err := amount.Parse(text)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{AssetID: asset, Amount: a}, nil
}

// AddAmountParams describes one extra amount to fold into a quantity list.
type AddAmountParams struct {
	AssetID        AssetID
	Amount         amount.Amount
	CoinQuantities []Quantity
}

// AddAmountToAsset merges p.CoinQuantities per asset and adds p.Amount to
// the p.AssetID bucket, appending it if absent. Order is first occurrence.
// The input slice is not modified.
func AddAmountToAsset(p AddAmountParams) []Quantity {
	merged := MergeQuantities(p.CoinQuantities)
	for i := range merged {
		if merged[i].AssetID == p.AssetID {
			merged[i].Amount = merged[i].Amount.Add(p.Amount)
			return merged
		}
	}
	return append(merged, Quantity{AssetID: p.AssetID, Amount: p.Amount})
}

// MergeQuantities returns one entry per asset with amounts summed, in order
// of first occurrence.
func MergeQuantities(qs []Quantity) []Quantity {
	out := make([]Quantity, 0, len(qs)+1)
	index := make(map[AssetID]int, len(qs))
	for _, q := range qs {
		if i, ok := index[q.AssetID]; ok {
			out[i].Amount = out[i].Amount.Add(q.Amount)
			continue
		}
		index[q.AssetID] = len(out)
		out = append(out, q)
	}
	return out
}

// Find returns the amount for asset in qs, or zero.
func Find(qs []Quantity, asset AssetID) amount.Amount {
	total := amount.Zero()
	for _, q := range qs {
		if q.AssetID == asset {
			total = total.Add(q.Amount)
		}
	}
	return total
}
