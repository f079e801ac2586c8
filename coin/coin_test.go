package coin

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	assetA = MustAssetID("0x0101010101010101010101010101010101010101010101010101010101010101")
	assetB = MustAssetID("0x0202020202020202020202020202020202020202020202020202020202020202")
)

// --- Identifier tests ---

func TestParseAssetID(t *testing.T) {
	id, err := ParseAssetID("0x0101010101010101010101010101010101010101010101010101010101010101")
	require.NoError(t, err)
	assert.Equal(t, assetA, id)

	noPrefix, err := ParseAssetID(strings.Repeat("01", 32))
	require.NoError(t, err)
	assert.Equal(t, id, noPrefix)

	upper, err := ParseAssetID("0X" + strings.Repeat("AB", 32))
	require.NoError(t, err)
	assert.Equal(t, "0x"+strings.Repeat("ab", 32), upper.String())
}

func TestParseAssetIDErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"short", "0x0101"},
		{"long", "0x" + strings.Repeat("01", 33)},
		{"not hex", "0x" + strings.Repeat("zz", 32)},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAssetID(tt.in)
			assert.ErrorIs(t, err, ErrInvalidHex)
		})
	}
}

func TestBaseAssetID(t *testing.T) {
	assert.True(t, BaseAssetID.IsBase())
	assert.False(t, assetA.IsBase())
	assert.Equal(t, "0x"+strings.Repeat("00", 32), BaseAssetID.String())
}

func TestUTXOIDRoundTrip(t *testing.T) {
	id := UTXOID{OutputIndex: 258}
	id.TxID[0] = 0xaa
	s := id.String()
	assert.Len(t, s, 2+UTXOIDLen*2)
	assert.True(t, strings.HasSuffix(s, "0102"))

	parsed, err := ParseUTXOID(s)
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseUTXOID(BaseAssetID.String())
	assert.ErrorIs(t, err, ErrInvalidHex)
}

func TestIdentifierJSON(t *testing.T) {
	c := Coin{
		ID:      UTXOID{OutputIndex: 1},
		Owner:   MustAddress(strings.Repeat("09", 32)),
		AssetID: assetB,
		Amount:  amount.New(5),
	}
	data, err := json.Marshal(c)
	require.NoError(t, err)

	var back Coin
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c.ID, back.ID)
	assert.Equal(t, c.Owner, back.Owner)
	assert.Equal(t, c.AssetID, back.AssetID)
	assert.True(t, c.Amount.Equal(back.Amount))
}

// --- Quantity aggregation tests ---

func TestAddAmountToAssetAppendsFee(t *testing.T) {
	in := []Quantity{NewQuantity(10, assetA)}
	out := AddAmountToAsset(AddAmountParams{
		AssetID:        BaseAssetID,
		Amount:         amount.New(29),
		CoinQuantities: in,
	})

	require.Len(t, out, 2)
	assert.Equal(t, assetA, out[0].AssetID)
	assert.Equal(t, "10", out[0].Amount.String())
	assert.Equal(t, BaseAssetID, out[1].AssetID)
	assert.Equal(t, "29", out[1].Amount.String())

	// Input untouched.
	require.Len(t, in, 1)
	assert.Equal(t, "10", in[0].Amount.String())
}

func TestAddAmountToAssetMergesIntoExisting(t *testing.T) {
	in := []Quantity{NewQuantity(3, BaseAssetID), NewQuantity(2, assetA)}
	out := AddAmountToAsset(AddAmountParams{AssetID: BaseAssetID, Amount: amount.New(1), CoinQuantities: in})

	require.Len(t, out, 2)
	assert.Equal(t, BaseAssetID, out[0].AssetID)
	assert.Equal(t, "4", out[0].Amount.String())
	assert.Equal(t, "3", in[0].Amount.String(), "input must not be mutated")
}

func TestAddAmountToAssetMergesDuplicates(t *testing.T) {
	in := []Quantity{
		NewQuantity(1, assetA),
		NewQuantity(2, assetB),
		NewQuantity(3, assetA),
	}
	out := AddAmountToAsset(AddAmountParams{AssetID: BaseAssetID, Amount: amount.New(7), CoinQuantities: in})

	require.Len(t, out, 3)
	assert.Equal(t, []AssetID{assetA, assetB, BaseAssetID}, []AssetID{out[0].AssetID, out[1].AssetID, out[2].AssetID})
	assert.Equal(t, "4", out[0].Amount.String())
	assert.Equal(t, "2", out[1].Amount.String())
	assert.Equal(t, "7", out[2].Amount.String())
}

func TestAddAmountToAssetEmpty(t *testing.T) {
	out := AddAmountToAsset(AddAmountParams{AssetID: BaseAssetID, Amount: amount.New(1)})
	require.Len(t, out, 1)
	assert.Equal(t, "1", out[0].Amount.String())
}

func TestParseQuantityRoundsUp(t *testing.T) {
	q, err := ParseQuantity("0.9", assetA)
	require.NoError(t, err)
	assert.Equal(t, "1", q.Amount.String())

	_, err = ParseQuantity("-2", assetA)
	assert.ErrorIs(t, err, amount.ErrInvalidAmount)
}

func TestFind(t *testing.T) {
	qs := []Quantity{NewQuantity(1, assetA), NewQuantity(4, assetA)}
	assert.Equal(t, "5", Find(qs, assetA).String())
	assert.True(t, Find(qs, assetB).IsZero())
}

// --- Resource tests ---

func TestResourceVariants(t *testing.T) {
	c := &Coin{ID: UTXOID{OutputIndex: 3}, AssetID: assetA, Amount: amount.New(4)}
	m := &Message{Nonce: Nonce{1}, Amount: amount.New(6)}

	var rs []Resource = []Resource{c, m}
	assert.Equal(t, KindCoin, rs[0].ResourceKind())
	assert.Equal(t, KindMessage, rs[1].ResourceKind())
	assert.Equal(t, BaseAssetID, rs[1].ResourceAsset(), "messages use the base asset")
	assert.Equal(t, "coin", KindCoin.String())
	assert.Equal(t, "message", KindMessage.String())

	totals := SumByAsset(rs)
	assert.Equal(t, "4", totals[assetA].String())
	assert.Equal(t, "6", totals[BaseAssetID].String())
}

func TestExcludedIDs(t *testing.T) {
	c := &Coin{ID: UTXOID{OutputIndex: 1}}
	m := &Message{Nonce: Nonce{2}}

	var e ExcludedIDs
	require.NoError(t, e.Add(c))
	require.NoError(t, e.Add(m))
	assert.Equal(t, 2, e.Len())
	assert.True(t, e.Contains(c))
	assert.True(t, e.Contains(m))
	assert.False(t, e.Contains(&Coin{ID: UTXOID{OutputIndex: 9}}))

	merged := e.Merge(&ExcludedIDs{UTXOs: []UTXOID{c.ID, {OutputIndex: 9}}})
	assert.Len(t, merged.UTXOs, 2)
	assert.Len(t, merged.Messages, 1)

	var nilSet *ExcludedIDs
	assert.Equal(t, 0, nilSet.Len())
	assert.False(t, nilSet.Contains(c))
	assert.Equal(t, 0, nilSet.Merge(nil).Len())
}

func TestExcludedIndex(t *testing.T) {
	c := &Coin{ID: UTXOID{OutputIndex: 1}}
	m := &Message{Nonce: Nonce{2}}
	e := &ExcludedIDs{UTXOs: []UTXOID{c.ID}, Messages: []Nonce{m.Nonce}}

	idx := e.Index()
	assert.True(t, idx.Contains(c))
	assert.True(t, idx.Contains(m))
	assert.False(t, idx.Contains(&Coin{ID: UTXOID{OutputIndex: 9}}))
	assert.False(t, idx.Contains(&Message{Nonce: Nonce{3}}))

	// A coin and a message never collide even with equal leading bytes.
	assert.False(t, idx.Contains(&Message{Nonce: Nonce(c.ID.TxID)}))

	var nilSet *ExcludedIDs
	assert.False(t, nilSet.Index().Contains(c))
}
