package localnode

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"go.etcd.io/bbolt"
	"golang.org/x/crypto/blake2b"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
	"github.com/bitfsorg/libfund-go/network"
)

var (
	bucketCoins    = []byte("coins")
	bucketMessages = []byte("messages")
	bucketMeta     = []byte("meta")

	keyHeight = []byte("height")
)

// DefaultMaxInputs is the input limit of a transaction.
const DefaultMaxInputs = 255

// Options configures a Node. Zero values take defaults.
type Options struct {
	// ChainID is mixed into transaction ids.
	ChainID uint64

	// GasPrice is quoted for requests that carry none. It is raised to
	// MinGasPrice when lower.
	GasPrice uint64

	// MinGasPrice is the lowest gas price the node accepts.
	MinGasPrice uint64

	// GasPriceFactor divides gas*price when computing fees. Default 1.
	GasPriceFactor uint64

	// MaxInputs bounds the resources GetResourcesToSpend may return.
	// Default DefaultMaxInputs.
	MaxInputs int

	Logger zerolog.Logger
}

// Node is an in-process fund node storing coins and messages in bbolt.
// It implements network.Provider.
type Node struct {
	db   *bbolt.DB
	opts Options
	log  zerolog.Logger
}

// Compile-time interface check.
var _ network.Provider = (*Node)(nil)

// coinRecord is the stored form of a coin; the UTXO id is the key.
type coinRecord struct {
	Owner        [coin.IDLen]byte
	AssetID      [coin.IDLen]byte
	Amount       string
	Maturity     uint32
	BlockCreated uint32
}

// messageRecord is the stored form of a message; the nonce is the key.
type messageRecord struct {
	Sender    [coin.IDLen]byte
	Recipient [coin.IDLen]byte
	Amount    string
	Data      []byte
	DAHeight  uint64
}

// Open opens or creates the node database at path.
// The parent directory is created if it does not exist.
func Open(path string, opts Options) (*Node, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("localnode: create directory: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("localnode: open bolt db: %w", err)
	}

	err = db.Update(func(btx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketCoins, bucketMessages, bucketMeta} {
			if _, err := btx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("localnode: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	if opts.GasPriceFactor == 0 {
		opts.GasPriceFactor = 1
	}
	if opts.MaxInputs <= 0 {
		opts.MaxInputs = DefaultMaxInputs
	}
	if opts.GasPrice < opts.MinGasPrice {
		opts.GasPrice = opts.MinGasPrice
	}

	return &Node{db: db, opts: opts, log: opts.Logger.With().Str("component", "localnode").Logger()}, nil
}

// Close closes the underlying database.
func (n *Node) Close() error { return n.db.Close() }

// Height returns the number of committed blocks.
func (n *Node) Height() (uint32, error) {
	var h uint32
	err := n.db.View(func(btx *bbolt.Tx) error {
		h = height(btx)
		return nil
	})
	return h, err
}

// Mint creates a coin of amt asset owned by owner.
func (n *Node) Mint(owner coin.Address, asset coin.AssetID, amt amount.Amount) (*coin.Coin, error) {
	if amt.IsZero() {
		return nil, ErrInvalidAmount
	}
	var c *coin.Coin
	err := n.db.Update(func(btx *bbolt.Tx) error {
		seq, err := btx.Bucket(bucketMeta).NextSequence()
		if err != nil {
			return err
		}
		var id coin.UTXOID
		id.TxID = deriveID([]byte("mint"), u64(seq), owner[:], asset[:])
		c = &coin.Coin{ID: id, Owner: owner, AssetID: asset, Amount: amt, BlockCreated: height(btx)}
		return putCoin(btx, c)
	})
	if err != nil {
		return nil, fmt.Errorf("localnode: mint: %w", err)
	}
	n.log.Debug().Str("owner", owner.String()).Str("asset", asset.String()).Str("amount", amt.String()).Msg("minted coin")
	return c, nil
}

// Deposit creates a message of amt base asset from sender to recipient,
// as if bridged from the base layer. Messages carrying data are not
// spendable resources.
func (n *Node) Deposit(sender, recipient coin.Address, amt amount.Amount, data []byte) (*coin.Message, error) {
	if amt.IsZero() {
		return nil, ErrInvalidAmount
	}
	var m *coin.Message
	err := n.db.Update(func(btx *bbolt.Tx) error {
		seq, err := btx.Bucket(bucketMeta).NextSequence()
		if err != nil {
			return err
		}
		m = &coin.Message{
			Nonce:     coin.Nonce(deriveID([]byte("deposit"), u64(seq), sender[:], recipient[:])),
			Sender:    sender,
			Recipient: recipient,
			Amount:    amt,
			Data:      append([]byte(nil), data...),
			DAHeight:  seq,
		}
		return putMessage(btx, m)
	})
	if err != nil {
		return nil, fmt.Errorf("localnode: deposit: %w", err)
	}
	n.log.Debug().Str("recipient", recipient.String()).Str("amount", amt.String()).Msg("deposited message")
	return m, nil
}

// deriveID hashes parts into a 32-byte identifier.
func deriveID(parts ...[]byte) [coin.IDLen]byte {
	h, _ := blake2b.New256(nil)
	for _, p := range parts {
		h.Write(p)
	}
	var out [coin.IDLen]byte
	copy(out[:], h.Sum(nil))
	return out
}

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

func height(btx *bbolt.Tx) uint32 {
	v := btx.Bucket(bucketMeta).Get(keyHeight)
	if len(v) != 4 {
		return 0
	}
	return binary.BigEndian.Uint32(v)
}

func bumpHeight(btx *bbolt.Tx) error {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, height(btx)+1)
	return btx.Bucket(bucketMeta).Put(keyHeight, b)
}

// --- record encoding ---

func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func putCoin(btx *bbolt.Tx, c *coin.Coin) error {
	data, err := encode(coinRecord{
		Owner:        c.Owner,
		AssetID:      c.AssetID,
		Amount:       c.Amount.String(),
		Maturity:     c.Maturity,
		BlockCreated: c.BlockCreated,
	})
	if err != nil {
		return fmt.Errorf("localnode: encode coin: %w", err)
	}
	return btx.Bucket(bucketCoins).Put(c.ID.Bytes(), data)
}

func decodeCoin(key, data []byte) (*coin.Coin, error) {
	var rec coinRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return nil, fmt.Errorf("localnode: decode coin: %w", err)
	}
	amt, err := amount.Parse(rec.Amount)
	if err != nil {
		return nil, fmt.Errorf("localnode: decode coin: %w", err)
	}
	c := &coin.Coin{
		Owner:        rec.Owner,
		AssetID:      rec.AssetID,
		Amount:       amt,
		Maturity:     rec.Maturity,
		BlockCreated: rec.BlockCreated,
	}
	copy(c.ID.TxID[:], key[:coin.IDLen])
	c.ID.OutputIndex = binary.BigEndian.Uint16(key[coin.IDLen:])
	return c, nil
}

func getCoin(btx *bbolt.Tx, id coin.UTXOID) (*coin.Coin, error) {
	key := id.Bytes()
	data := btx.Bucket(bucketCoins).Get(key)
	if data == nil {
		return nil, nil
	}
	return decodeCoin(key, data)
}

func putMessage(btx *bbolt.Tx, m *coin.Message) error {
	data, err := encode(messageRecord{
		Sender:    m.Sender,
		Recipient: m.Recipient,
		Amount:    m.Amount.String(),
		Data:      m.Data,
		DAHeight:  m.DAHeight,
	})
	if err != nil {
		return fmt.Errorf("localnode: encode message: %w", err)
	}
	return btx.Bucket(bucketMessages).Put(m.Nonce[:], data)
}

func decodeMessage(key, data []byte) (*coin.Message, error) {
	var rec messageRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return nil, fmt.Errorf("localnode: decode message: %w", err)
	}
	amt, err := amount.Parse(rec.Amount)
	if err != nil {
		return nil, fmt.Errorf("localnode: decode message: %w", err)
	}
	m := &coin.Message{
		Sender:    rec.Sender,
		Recipient: rec.Recipient,
		Amount:    amt,
		Data:      rec.Data,
		DAHeight:  rec.DAHeight,
	}
	copy(m.Nonce[:], key)
	return m, nil
}

func getMessage(btx *bbolt.Tx, nonce coin.Nonce) (*coin.Message, error) {
	data := btx.Bucket(bucketMessages).Get(nonce[:])
	if data == nil {
		return nil, nil
	}
	return decodeMessage(nonce[:], data)
}
