package localnode

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
	"github.com/bitfsorg/libfund-go/network"
	"github.com/bitfsorg/libfund-go/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice  = coin.MustAddress("0x09c0b2d1a486c439a87bcba6b46a7a1a23f3897cc83a94521a96da5c23bc58db")
	bob    = coin.MustAddress("0x0202020202020202020202020202020202020202020202020202020202020202")
	assetA = coin.MustAssetID("0x0101010101010101010101010101010101010101010101010101010101010101")
	assetB = coin.MustAssetID("0x0303030303030303030303030303030303030303030303030303030303030303")
)

func tempNode(t *testing.T, opts Options) *Node {
	t.Helper()
	n, err := Open(filepath.Join(t.TempDir(), "node", "fund.db"), opts)
	require.NoError(t, err)
	t.Cleanup(func() { n.Close() })
	return n
}

func mint(t *testing.T, n *Node, owner coin.Address, asset coin.AssetID, amt uint64) *coin.Coin {
	t.Helper()
	c, err := n.Mint(owner, asset, amount.New(amt))
	require.NoError(t, err)
	return c
}

// ---------------------------------------------------------------------------
// Store tests
// ---------------------------------------------------------------------------

func TestOpenCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	n, err := Open(filepath.Join(dir, "fund.db"), Options{})
	require.NoError(t, err)
	defer n.Close()

	_, err = os.Stat(dir)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), n.opts.GasPriceFactor)
	assert.Equal(t, DefaultMaxInputs, n.opts.MaxInputs)
}

func TestOpenRaisesGasPriceToMinimum(t *testing.T) {
	n := tempNode(t, Options{GasPrice: 1, MinGasPrice: 5})
	assert.Equal(t, uint64(5), n.opts.GasPrice)
}

func TestReopenKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fund.db")
	n, err := Open(path, Options{})
	require.NoError(t, err)
	c, err := n.Mint(alice, assetA, amount.New(7))
	require.NoError(t, err)
	require.NoError(t, n.Close())

	n, err = Open(path, Options{})
	require.NoError(t, err)
	defer n.Close()
	coins, err := n.GetCoins(context.Background(), alice, nil)
	require.NoError(t, err)
	require.Len(t, coins, 1)
	assert.Equal(t, c.ID, coins[0].ID)
	assert.Equal(t, "7", coins[0].Amount.String())
}

func TestMintAndDeposit(t *testing.T) {
	n := tempNode(t, Options{})
	ctx := context.Background()

	c1 := mint(t, n, alice, assetA, 5)
	c2 := mint(t, n, alice, assetA, 5)
	assert.NotEqual(t, c1.ID, c2.ID, "ids are unique per mint")

	m, err := n.Deposit(bob, alice, amount.New(3), nil)
	require.NoError(t, err)
	assert.Equal(t, alice, m.Recipient)

	msgs, err := n.GetMessages(ctx, alice)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, m.Nonce, msgs[0].Nonce)

	none, err := n.GetMessages(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = n.Mint(alice, assetA, amount.Zero())
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = n.Deposit(bob, alice, amount.Zero(), nil)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

// ---------------------------------------------------------------------------
// Catalog tests
// ---------------------------------------------------------------------------

func TestGetCoinsFilter(t *testing.T) {
	n := tempNode(t, Options{})
	ctx := context.Background()
	mint(t, n, alice, assetA, 1)
	mint(t, n, alice, assetB, 2)
	mint(t, n, bob, assetA, 3)

	all, err := n.GetCoins(ctx, alice, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyA, err := n.GetCoins(ctx, alice, &assetA)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, "1", onlyA[0].Amount.String())
}

func TestGetBalances(t *testing.T) {
	n := tempNode(t, Options{})
	mint(t, n, alice, assetB, 5)
	mint(t, n, alice, assetA, 2)
	mint(t, n, alice, assetA, 3)
	mint(t, n, alice, coin.BaseAssetID, 4)
	_, err := n.Deposit(bob, alice, amount.New(100), nil)
	require.NoError(t, err)

	balances, err := n.GetBalances(context.Background(), alice)
	require.NoError(t, err)
	require.Len(t, balances, 3)
	assert.Equal(t, coin.BaseAssetID, balances[0].AssetID, "ordered by asset id")
	assert.Equal(t, "4", balances[0].Amount.String(), "messages are not part of balances")
	assert.Equal(t, assetA, balances[1].AssetID)
	assert.Equal(t, "5", balances[1].Amount.String())
	assert.Equal(t, assetB, balances[2].AssetID)
}

func TestGetResourcesToSpendLargestFirst(t *testing.T) {
	n := tempNode(t, Options{})
	mint(t, n, alice, assetA, 1)
	big := mint(t, n, alice, assetA, 10)
	mid := mint(t, n, alice, assetA, 4)

	rs, err := n.GetResourcesToSpend(context.Background(), alice,
		[]coin.Quantity{coin.NewQuantity(12, assetA)}, nil)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, big.ID.String(), rs[0].ResourceID())
	assert.Equal(t, mid.ID.String(), rs[1].ResourceID())
}

func TestGetResourcesToSpendTieBreakByID(t *testing.T) {
	n := tempNode(t, Options{})
	c1 := mint(t, n, alice, assetA, 5)
	c2 := mint(t, n, alice, assetA, 5)
	first := c1
	if c2.ID.String() < c1.ID.String() {
		first = c2
	}

	rs, err := n.GetResourcesToSpend(context.Background(), alice,
		[]coin.Quantity{coin.NewQuantity(5, assetA)}, nil)
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, first.ID.String(), rs[0].ResourceID())
}

func TestGetResourcesToSpendMessagesAndExclusions(t *testing.T) {
	n := tempNode(t, Options{})
	ctx := context.Background()
	c := mint(t, n, alice, coin.BaseAssetID, 5)
	m, err := n.Deposit(bob, alice, amount.New(4), nil)
	require.NoError(t, err)
	_, err = n.Deposit(bob, alice, amount.New(100), []byte("call data"))
	require.NoError(t, err)

	rs, err := n.GetResourcesToSpend(ctx, alice, []coin.Quantity{coin.NewQuantity(9, coin.BaseAssetID)}, nil)
	require.NoError(t, err)
	assert.Len(t, rs, 2, "data-carrying messages are not spendable")

	_, err = n.GetResourcesToSpend(ctx, alice, []coin.Quantity{coin.NewQuantity(9, coin.BaseAssetID)},
		&coin.ExcludedIDs{Messages: []coin.Nonce{m.Nonce}})
	assert.ErrorIs(t, err, network.ErrInsufficientFunds)

	rs, err = n.GetResourcesToSpend(ctx, alice, []coin.Quantity{coin.NewQuantity(4, coin.BaseAssetID)},
		&coin.ExcludedIDs{UTXOs: []coin.UTXOID{c.ID}})
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, coin.KindMessage, rs[0].ResourceKind())
}

func TestGetResourcesToSpendInsufficient(t *testing.T) {
	n := tempNode(t, Options{})
	mint(t, n, alice, assetA, 5)

	_, err := n.GetResourcesToSpend(context.Background(), alice,
		[]coin.Quantity{coin.NewQuantity(6, assetA)}, nil)
	assert.ErrorIs(t, err, network.ErrInsufficientFunds)

	_, err = n.GetResourcesToSpend(context.Background(), alice,
		[]coin.Quantity{coin.NewQuantity(1, assetB)}, nil)
	assert.ErrorIs(t, err, network.ErrInsufficientFunds)
}

func TestGetResourcesToSpendMaxInputs(t *testing.T) {
	n := tempNode(t, Options{MaxInputs: 2})
	for i := 0; i < 3; i++ {
		mint(t, n, alice, assetA, 1)
	}
	_, err := n.GetResourcesToSpend(context.Background(), alice,
		[]coin.Quantity{coin.NewQuantity(3, assetA)}, nil)
	assert.ErrorIs(t, err, network.ErrMaxInputsExceeded)
}

func TestGetResourcesToSpendCanceled(t *testing.T) {
	n := tempNode(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := n.GetResourcesToSpend(ctx, alice, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

// ---------------------------------------------------------------------------
// Transaction tests
// ---------------------------------------------------------------------------

// fundedTransfer builds a request sending amt of asset from alice to bob,
// funded from the node, priced at the node's minimum gas price.
func fundedTransfer(t *testing.T, n *Node, amt uint64, asset coin.AssetID) *tx.Request {
	t.Helper()
	ctx := context.Background()
	req := tx.NewScriptRequest(tx.Params{GasLimit: amount.New(1_000_000)})
	req.AddCoinOutput(bob, amount.New(amt), asset)

	cost, err := n.GetTransactionCost(ctx, req, nil)
	require.NoError(t, err)
	req.GasPrice = cost.MinGasPrice
	req.GasLimit = cost.GasUsed

	required := coin.AddAmountToAsset(coin.AddAmountParams{
		AssetID: coin.BaseAssetID, Amount: cost.MaxFee, CoinQuantities: cost.RequiredQuantities,
	})
	rs, err := n.GetResourcesToSpend(ctx, alice, required, req.UsedResources())
	require.NoError(t, err)
	require.NoError(t, req.AddResources(rs))
	require.NoError(t, n.EstimateTxDependencies(ctx, req))
	return req
}

func TestGetTransactionCost(t *testing.T) {
	n := tempNode(t, Options{MinGasPrice: 1, GasPrice: 2, GasPriceFactor: 100})
	req := tx.NewScriptRequest(tx.Params{Script: []byte{1, 2, 3}})
	req.AddCoinOutput(bob, amount.New(2), assetA)
	req.AddCoinOutput(bob, amount.New(3), assetA)

	cost, err := n.GetTransactionCost(context.Background(), req, []coin.Quantity{coin.NewQuantity(4, coin.BaseAssetID)})
	require.NoError(t, err)

	// 1000 base + 2*100 outputs + 3 script bytes
	assert.Equal(t, "1203", cost.GasUsed.String())
	assert.Equal(t, "2", cost.GasPrice.String())
	assert.Equal(t, "1", cost.MinGasPrice.String())
	assert.Equal(t, "25", cost.MaxFee.String(), "ceil(1203*2/100)")
	assert.Equal(t, "20", cost.MinFee.String())
	require.Len(t, cost.RequiredQuantities, 2)
	assert.Equal(t, "5", coin.Find(cost.RequiredQuantities, assetA).String())
	assert.Equal(t, "4", coin.Find(cost.RequiredQuantities, coin.BaseAssetID).String())

	// Funding does not change the quote.
	require.NoError(t, req.AddResource(mint(t, n, alice, assetA, 9)))
	again, err := n.GetTransactionCost(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, cost.GasUsed.String(), again.GasUsed.String())
}

func TestSendTransaction(t *testing.T) {
	n := tempNode(t, Options{MinGasPrice: 1, GasPriceFactor: 1000})
	ctx := context.Background()
	mint(t, n, alice, assetA, 5)
	mint(t, n, alice, coin.BaseAssetID, 5)

	req := fundedTransfer(t, n, 2, assetA)
	resp, err := n.SendTransaction(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, network.StatusSuccess, resp.Status)
	require.NotEmpty(t, resp.Receipts)
	assert.Equal(t, network.ReceiptTransfer, resp.Receipts[0].Type)

	bobBal, err := n.GetBalances(ctx, bob)
	require.NoError(t, err)
	require.Len(t, bobBal, 1)
	assert.Equal(t, "2", bobBal[0].Amount.String())

	aliceBal, err := n.GetBalances(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "3", coin.Find(aliceBal, assetA).String())
	assert.Equal(t, "3", coin.Find(aliceBal, coin.BaseAssetID).String(), "fee ceil(1100*1/1000) = 2")

	h, err := n.Height()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), h)

	// Replaying spends coins that no longer exist.
	_, err = n.SendTransaction(ctx, req)
	assert.ErrorIs(t, err, network.ErrBroadcastRejected)
	assert.ErrorIs(t, err, ErrInputNotFound)
}

func TestSimulateDoesNotCommit(t *testing.T) {
	n := tempNode(t, Options{})
	ctx := context.Background()
	mint(t, n, alice, assetA, 5)

	req := fundedTransfer(t, n, 2, assetA)
	res, err := n.Simulate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, network.ReceiptScriptEnd, res.Receipts[len(res.Receipts)-1].Type)

	bal, err := n.GetBalances(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bal)
}

func TestSendTransactionRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *tx.Request)
		want   error
	}{
		{"gas price below minimum", func(r *tx.Request) { r.GasPrice = amount.Zero() }, ErrGasPriceTooLow},
		{"gas limit below usage", func(r *tx.Request) { r.GasLimit = amount.New(1) }, ErrOutOfGas},
		{"output exceeds inputs", func(r *tx.Request) {
			r.AddCoinOutput(bob, amount.New(100), assetA)
			r.GasLimit = amount.New(1_000_000)
		}, ErrUnbalanced},
		{"missing witness", func(r *tx.Request) { r.Witnesses = nil }, ErrMissingWitness},
		{"duplicate input", func(r *tx.Request) { r.Inputs = append(r.Inputs, r.Inputs[0]) }, ErrDuplicateInput},
		{"tampered amount", func(r *tx.Request) {
			r.Inputs[0].(*tx.CoinInput).Amount = amount.New(50)
		}, ErrInputMismatch},
		{"surplus without change", func(r *tx.Request) {
			out := r.Outputs[:0]
			for _, o := range r.Outputs {
				if _, ok := o.(*tx.ChangeOutput); !ok {
					out = append(out, o)
				}
			}
			r.Outputs = out
		}, ErrUnbalanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tempNode(t, Options{MinGasPrice: 1, GasPriceFactor: 1000})
			mint(t, n, alice, assetA, 5)
			mint(t, n, alice, coin.BaseAssetID, 5)

			req := fundedTransfer(t, n, 2, assetA)
			tt.mutate(req)
			_, err := n.SendTransaction(context.Background(), req)
			assert.ErrorIs(t, err, network.ErrBroadcastRejected)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWithdrawal(t *testing.T) {
	n := tempNode(t, Options{})
	ctx := context.Background()
	mint(t, n, alice, coin.BaseAssetID, 10)

	req, err := tx.NewWithdrawRequest(bob, amount.New(6), tx.Params{GasLimit: amount.New(1_000_000)})
	require.NoError(t, err)
	cost, err := n.GetTransactionCost(ctx, req, []coin.Quantity{coin.NewQuantity(6, coin.BaseAssetID)})
	require.NoError(t, err)
	assert.Equal(t, "6", coin.Find(cost.RequiredQuantities, coin.BaseAssetID).String())

	rs, err := n.GetResourcesToSpend(ctx, alice, cost.RequiredQuantities, nil)
	require.NoError(t, err)
	require.NoError(t, req.AddResources(rs))

	resp, err := n.SendTransaction(ctx, req)
	require.NoError(t, err)
	var out *network.Receipt
	for i := range resp.Receipts {
		if resp.Receipts[i].Type == network.ReceiptMessageOut {
			out = &resp.Receipts[i]
		}
	}
	require.NotNil(t, out)
	assert.Equal(t, bob, out.To)
	assert.Equal(t, "6", out.Amount.String())

	bal, err := n.GetBalances(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, "4", coin.Find(bal, coin.BaseAssetID).String())
}

func TestEstimateTxDependenciesAddsChange(t *testing.T) {
	n := tempNode(t, Options{})
	c := mint(t, n, alice, assetA, 5)
	m, err := n.Deposit(bob, alice, amount.New(1), nil)
	require.NoError(t, err)

	req := tx.NewScriptRequest(tx.Params{})
	req.Inputs = append(req.Inputs,
		&tx.CoinInput{ID: c.ID, Owner: alice, Amount: c.Amount, AssetID: assetA},
		&tx.MessageInput{Nonce: m.Nonce, Recipient: alice, Amount: m.Amount},
	)
	require.NoError(t, n.EstimateTxDependencies(context.Background(), req))
	require.NotNil(t, req.ChangeOutputFor(assetA))
	require.NotNil(t, req.ChangeOutputFor(coin.BaseAssetID))
	assert.Equal(t, alice, req.ChangeOutputFor(coin.BaseAssetID).To)

	assert.ErrorIs(t, n.EstimateTxDependencies(context.Background(), nil), tx.ErrNilParam)
}
