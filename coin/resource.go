package coin

import (
	"fmt"

	"github.com/bitfsorg/libfund-go/amount"
)

// ResourceKind tags the variants of Resource.
type ResourceKind int

const (
	// KindCoin is a UTXO-style coin.
	KindCoin ResourceKind = iota
	// KindMessage is a bridged message, always denominated in the base asset.
	KindMessage
)

func (k ResourceKind) String() string {
	switch k {
	case KindCoin:
		return "coin"
	case KindMessage:
		return "message"
	default:
		return fmt.Sprintf("ResourceKind(%d)", int(k))
	}
}

// Resource is a spendable input: either *Coin or *Message.
type Resource interface {
	ResourceKind() ResourceKind
	// ResourceID is the canonical hex id, unique across both kinds.
	ResourceID() string
	ResourceOwner() Address
	ResourceAsset() AssetID
	ResourceAmount() amount.Amount
}

// Coin is a spendable asset record owned by an address.
type Coin struct {
	ID           UTXOID        `json:"id"`
	Owner        Address       `json:"owner"`
	AssetID      AssetID       `json:"assetId"`
	Amount       amount.Amount `json:"amount"`
	Maturity     uint32        `json:"maturity"`
	BlockCreated uint32        `json:"blockCreated"`
}

func (c *Coin) ResourceKind() ResourceKind    { return KindCoin }
func (c *Coin) ResourceID() string            { return c.ID.String() }
func (c *Coin) ResourceOwner() Address        { return c.Owner }
func (c *Coin) ResourceAsset() AssetID        { return c.AssetID }
func (c *Coin) ResourceAmount() amount.Amount { return c.Amount }

// Message is a bridged value record redeemable by its recipient.
type Message struct {
	Nonce     Nonce         `json:"nonce"`
	Sender    Address       `json:"sender"`
	Recipient Address       `json:"recipient"`
	Amount    amount.Amount `json:"amount"`
	Data      []byte        `json:"data,omitempty"`
	DAHeight  uint64        `json:"daHeight"`
}

func (m *Message) ResourceKind() ResourceKind    { return KindMessage }
func (m *Message) ResourceID() string            { return m.Nonce.String() }
func (m *Message) ResourceOwner() Address        { return m.Recipient }
func (m *Message) ResourceAsset() AssetID        { return BaseAssetID }
func (m *Message) ResourceAmount() amount.Amount { return m.Amount }

// ExcludedIDs lists resources that must not be selected again, typically
// because they are already inputs of the request being funded.
type ExcludedIDs struct {
	UTXOs    []UTXOID `json:"utxos"`
	Messages []Nonce  `json:"messages"`
}

// Len returns the number of excluded ids.
func (e *ExcludedIDs) Len() int {
	if e == nil {
		return 0
	}
	return len(e.UTXOs) + len(e.Messages)
}

// Add records r as excluded.
func (e *ExcludedIDs) Add(r Resource) error {
	switch v := r.(type) {
	case *Coin:
		e.UTXOs = append(e.UTXOs, v.ID)
	case *Message:
		e.Messages = append(e.Messages, v.Nonce)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownResource, r)
	}
	return nil
}

// Merge returns a new set holding the ids of e and other without duplicates.
func (e *ExcludedIDs) Merge(other *ExcludedIDs) *ExcludedIDs {
	out := &ExcludedIDs{UTXOs: []UTXOID{}, Messages: []Nonce{}}
	seenU := make(map[UTXOID]bool)
	seenM := make(map[Nonce]bool)
	for _, set := range []*ExcludedIDs{e, other} {
		if set == nil {
			continue
		}
		for _, u := range set.UTXOs {
			if !seenU[u] {
				seenU[u] = true
				out.UTXOs = append(out.UTXOs, u)
			}
		}
		for _, m := range set.Messages {
			if !seenM[m] {
				seenM[m] = true
				out.Messages = append(out.Messages, m)
			}
		}
	}
	return out
}

// Contains reports whether r is in the excluded set.
func (e *ExcludedIDs) Contains(r Resource) bool {
	if e == nil {
		return false
	}
	switch v := r.(type) {
	case *Coin:
		for _, u := range e.UTXOs {
			if u == v.ID {
				return true
			}
		}
	case *Message:
		for _, m := range e.Messages {
			if m == v.Nonce {
				return true
			}
		}
	}
	return false
}

// ExcludedIndex is a constant-time lookup over an ExcludedIDs snapshot.
type ExcludedIndex struct {
	utxos    map[UTXOID]struct{}
	messages map[Nonce]struct{}
}

// Index builds an ExcludedIndex for repeated Contains checks.
func (e *ExcludedIDs) Index() ExcludedIndex {
	idx := ExcludedIndex{
		utxos:    make(map[UTXOID]struct{}),
		messages: make(map[Nonce]struct{}),
	}
	if e == nil {
		return idx
	}
	for _, u := range e.UTXOs {
		idx.utxos[u] = struct{}{}
	}
	for _, m := range e.Messages {
		idx.messages[m] = struct{}{}
	}
	return idx
}

// Contains reports whether r is in the indexed set.
func (x ExcludedIndex) Contains(r Resource) bool {
	var ok bool
	switch v := r.(type) {
	case *Coin:
		_, ok = x.utxos[v.ID]
	case *Message:
		_, ok = x.messages[v.Nonce]
	}
	return ok
}

// SumByAsset totals resource amounts per asset.
func SumByAsset(rs []Resource) map[AssetID]amount.Amount {
	totals := make(map[AssetID]amount.Amount)
	for _, r := range rs {
		totals[r.ResourceAsset()] = totals[r.ResourceAsset()].Add(r.ResourceAmount())
	}
	return totals
}
