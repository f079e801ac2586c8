package wallet

import (
	"context"
	"fmt"

	"github.com/bitfsorg/libfund-go/coin"
	"github.com/bitfsorg/libfund-go/network"
)

// GetResourcesToSpend returns resources of the account that cover
// quantities, skipping anything in excluded. Zero requirements are dropped
// and repeated assets merged before the provider is asked. The provider's
// answer is checked before it is returned: it must stay within MaxRecords
// per kind, contain no duplicates or excluded ids, and cover every
// requirement.
func (a *Account) GetResourcesToSpend(ctx context.Context, quantities []coin.Quantity, excluded *coin.ExcludedIDs) ([]coin.Resource, error) {
	p, err := a.Provider()
	if err != nil {
		return nil, err
	}
	return a.selectResources(ctx, p, quantities, excluded)
}

func (a *Account) selectResources(ctx context.Context, p network.ResourceCatalog, quantities []coin.Quantity, excluded *coin.ExcludedIDs) ([]coin.Resource, error) {
	required := make([]coin.Quantity, 0, len(quantities))
	for _, q := range coin.MergeQuantities(quantities) {
		if !q.Amount.IsZero() {
			required = append(required, q)
		}
	}
	if len(required) == 0 {
		return []coin.Resource{}, nil
	}
	if excluded == nil {
		excluded = &coin.ExcludedIDs{UTXOs: []coin.UTXOID{}, Messages: []coin.Nonce{}}
	}

	resources, err := p.GetResourcesToSpend(ctx, a.address, required, excluded)
	if err != nil {
		return nil, err
	}

	var coins, msgs int
	for _, r := range resources {
		if r.ResourceKind() == coin.KindMessage {
			msgs++
		} else {
			coins++
		}
	}
	if err := checkLimit("coins", coins); err != nil {
		return nil, err
	}
	if err := checkLimit("messages", msgs); err != nil {
		return nil, err
	}

	if err := verifySelection(a.address, resources, required, excluded); err != nil {
		return nil, err
	}
	return resources, nil
}

// verifySelection rejects a provider answer that would under-fund,
// double-spend or spend another owner's resources.
func verifySelection(owner coin.Address, resources []coin.Resource, required []coin.Quantity, excluded *coin.ExcludedIDs) error {
	skip := excluded.Index()
	seen := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		key := r.ResourceKind().String() + ":" + r.ResourceID()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateResource, r.ResourceID())
		}
		seen[key] = struct{}{}
		if skip.Contains(r) {
			return fmt.Errorf("%w: %s", ErrExcludedResource, r.ResourceID())
		}
		if r.ResourceOwner() != owner {
			return fmt.Errorf("%w: %s owned by %s", ErrForeignResource, r.ResourceID(), r.ResourceOwner())
		}
	}

	totals := coin.SumByAsset(resources)
	for _, q := range required {
		if totals[q.AssetID].LT(q.Amount) {
			return fmt.Errorf("%w: asset %s has %s, need %s",
				ErrInsufficientFunds, q.AssetID, totals[q.AssetID], q.Amount)
		}
	}
	return nil
}
