package tx

import (
	"bytes"
	"testing"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	assetA = coin.MustAssetID("0x0101010101010101010101010101010101010101010101010101010101010101")
	owner  = coin.MustAddress("0x09c0b2d1a486c439a87bcba6b46a7a1a23f3897cc83a94521a96da5c23bc58db")
	dest   = coin.MustAddress("0x0202020202020202020202020202020202020202020202020202020202020202")
)

func testCoin(idx uint16, asset coin.AssetID, amt uint64) *coin.Coin {
	id := coin.UTXOID{OutputIndex: idx}
	id.TxID[0] = 0x11
	return &coin.Coin{ID: id, Owner: owner, AssetID: asset, Amount: amount.New(amt)}
}

func testMessage(b byte, amt uint64) *coin.Message {
	return &coin.Message{Nonce: coin.Nonce{b}, Recipient: owner, Amount: amount.New(amt)}
}

// --- Output tests ---

func TestAddCoinOutput(t *testing.T) {
	req := NewScriptRequest(Params{})
	req.AddCoinOutput(dest, amount.New(2), assetA)

	require.Len(t, req.Outputs, 1)
	out, ok := req.Outputs[0].(*CoinOutput)
	require.True(t, ok)
	assert.Equal(t, dest, out.To)
	assert.Equal(t, assetA, out.AssetID)
	assert.Equal(t, "2", out.Amount.String())
}

func TestAddChangeOutputIsIdempotentPerAsset(t *testing.T) {
	req := NewScriptRequest(Params{})
	req.AddChangeOutput(owner, assetA)
	req.AddChangeOutput(dest, assetA)
	req.AddChangeOutput(owner, coin.BaseAssetID)

	require.Len(t, req.Outputs, 2)
	assert.Equal(t, owner, req.ChangeOutputFor(assetA).To)
	assert.NotNil(t, req.ChangeOutputFor(coin.BaseAssetID))
}

func TestCoinOutputsQuantities(t *testing.T) {
	req := NewScriptRequest(Params{})
	req.AddCoinOutputs(dest, []coin.Quantity{
		coin.NewQuantity(1, assetA),
		coin.NewQuantity(2, coin.BaseAssetID),
		coin.NewQuantity(3, assetA),
	})
	req.AddChangeOutput(owner, assetA)

	qs := req.CoinOutputsQuantities()
	require.Len(t, qs, 2)
	assert.Equal(t, assetA, qs[0].AssetID)
	assert.Equal(t, "4", qs[0].Amount.String())
	assert.Equal(t, "2", qs[1].Amount.String())
}

func TestAddContractInputAndOutput(t *testing.T) {
	req := NewScriptRequest(Params{})
	contract := [coin.IDLen]byte{0xcc}
	require.NoError(t, req.AddContractInputAndOutput(contract))
	require.NoError(t, req.AddContractInputAndOutput(contract))

	require.Len(t, req.Inputs, 1)
	require.Len(t, req.Outputs, 1)
	assert.Equal(t, uint8(0), req.Outputs[0].(*ContractOutput).InputIndex)

	req.AddVariableOutputs(2)
	assert.Len(t, req.Outputs, 3)
}

// --- Resource tests ---

func TestAddResources(t *testing.T) {
	req := NewScriptRequest(Params{})
	c1 := testCoin(0, assetA, 5)
	c2 := testCoin(1, coin.BaseAssetID, 7)
	m := testMessage(0x01, 3)

	require.NoError(t, req.AddResources([]coin.Resource{c1, c2, m}))

	require.Len(t, req.Inputs, 3)
	assert.Len(t, req.Witnesses, 1, "one witness slot per owner")
	for _, in := range req.Inputs {
		switch v := in.(type) {
		case *CoinInput:
			assert.Equal(t, uint8(0), v.WitnessIndex)
		case *MessageInput:
			assert.Equal(t, uint8(0), v.WitnessIndex)
		}
	}

	// Change outputs for both funded assets, pointing back to the owner.
	require.NotNil(t, req.ChangeOutputFor(assetA))
	require.NotNil(t, req.ChangeOutputFor(coin.BaseAssetID))
	assert.Equal(t, owner, req.ChangeOutputFor(assetA).To)

	totals := req.InputTotals()
	assert.Equal(t, "5", totals[assetA].String())
	assert.Equal(t, "10", totals[coin.BaseAssetID].String())
}

func TestAddResourceSkipsDuplicates(t *testing.T) {
	req := NewScriptRequest(Params{})
	c := testCoin(0, assetA, 5)
	require.NoError(t, req.AddResource(c))
	require.NoError(t, req.AddResource(c))
	assert.Len(t, req.Inputs, 1)
	assert.True(t, req.HasResource(c))
	assert.False(t, req.HasResource(testCoin(9, assetA, 5)))
}

func TestAddResourceNil(t *testing.T) {
	req := NewScriptRequest(Params{})
	assert.ErrorIs(t, req.AddResource(nil), ErrNilParam)
}

func TestAddResourceSeparateOwners(t *testing.T) {
	req := NewScriptRequest(Params{})
	c1 := testCoin(0, assetA, 5)
	c2 := testCoin(1, assetA, 5)
	c2.Owner = dest
	require.NoError(t, req.AddResources([]coin.Resource{c1, c2}))

	assert.Len(t, req.Witnesses, 2)
	assert.Equal(t, uint8(1), req.Inputs[1].(*CoinInput).WitnessIndex)
}

func TestUsedResources(t *testing.T) {
	req := NewScriptRequest(Params{})
	empty := req.UsedResources()
	assert.Empty(t, empty.UTXOs)
	assert.Empty(t, empty.Messages)

	c := testCoin(0, assetA, 5)
	m := testMessage(0x02, 1)
	require.NoError(t, req.AddResources([]coin.Resource{c, m}))
	require.NoError(t, req.AddContractInputAndOutput([coin.IDLen]byte{1}))

	used := req.UsedResources()
	assert.Equal(t, []coin.UTXOID{c.ID}, used.UTXOs)
	assert.Equal(t, []coin.Nonce{m.Nonce}, used.Messages)
}

// --- Encoding tests ---

func TestIDIsDeterministicAndIgnoresWitnesses(t *testing.T) {
	build := func() *Request {
		req := NewScriptRequest(Params{GasPrice: amount.New(1), GasLimit: amount.New(100)})
		req.AddCoinOutput(dest, amount.New(2), assetA)
		require.NoError(t, req.AddResource(testCoin(0, assetA, 5)))
		return req
	}
	r1, r2 := build(), build()

	id1, err := r1.ID(0)
	require.NoError(t, err)
	id2, err := r2.ID(0)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	r2.Witnesses[0] = []byte("signature")
	id2, err = r2.ID(0)
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "witnesses are not part of the id")

	other, err := r1.ID(1)
	require.NoError(t, err)
	assert.NotEqual(t, id1, other, "chain id is part of the id")

	r2.AddCoinOutput(dest, amount.New(1), assetA)
	id2, err = r2.ID(0)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestBytesStartsWithType(t *testing.T) {
	req := NewScriptRequest(Params{Script: []byte{0xaa}})
	b, err := req.Bytes()
	require.NoError(t, err)
	assert.Equal(t, byte(TypeScript), b[0])
	assert.True(t, bytes.Contains(b, []byte{0, 0, 0, 1, 0xaa}))
}

// --- Normalization tests ---

func TestTransactionifyReturnsSameRequest(t *testing.T) {
	req := NewScriptRequest(Params{})
	got, err := Transactionify(req)
	require.NoError(t, err)
	assert.Same(t, req, got)
}

func TestTransactionifyLike(t *testing.T) {
	like := Like{
		Type:     TypeScript,
		GasLimit: amount.New(10),
		Outputs:  []Output{&CoinOutput{To: dest, Amount: amount.New(1), AssetID: assetA}},
	}
	got, err := Transactionify(like)
	require.NoError(t, err)
	assert.Equal(t, "10", got.GasLimit.String())
	assert.Len(t, got.Outputs, 1)
	assert.Equal(t, TypeScript, got.Type())
}

func TestTransactionifyErrors(t *testing.T) {
	_, err := Transactionify(Like{Type: TypeCreate})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Transactionify(nil)
	assert.ErrorIs(t, err, ErrNilParam)

	var nilReq *Request
	_, err = Transactionify(nilReq)
	assert.ErrorIs(t, err, ErrNilParam)
}

// --- Withdrawal tests ---

func TestWithdrawRequestRoundTrip(t *testing.T) {
	req, err := NewWithdrawRequest(dest, amount.New(1234), Params{GasLimit: amount.New(5)})
	require.NoError(t, err)
	assert.True(t, req.IsWithdrawal())
	assert.Equal(t, "5", req.GasLimit.String())

	recipient, amt, err := req.DecodeWithdrawal()
	require.NoError(t, err)
	assert.Equal(t, dest, recipient)
	assert.Equal(t, "1234", amt.String())
}

func TestWithdrawRequestRejectsHugeAmount(t *testing.T) {
	huge := amount.New(^uint64(0)).Add(amount.New(1))
	_, err := NewWithdrawRequest(dest, huge, Params{})
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestDecodeWithdrawalErrors(t *testing.T) {
	_, _, err := NewScriptRequest(Params{}).DecodeWithdrawal()
	assert.ErrorIs(t, err, ErrNotWithdrawal)

	req := NewScriptRequest(Params{Script: WithdrawScript, ScriptData: []byte{1, 2}})
	_, _, err = req.DecodeWithdrawal()
	assert.ErrorIs(t, err, ErrInvalidParams)
}
