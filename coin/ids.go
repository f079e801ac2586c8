package coin

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// IDLen is the byte length of asset ids, addresses, tx ids and nonces.
const IDLen = 32

// UTXOIDLen is the byte length of an encoded UTXOID (tx id + u16 index).
const UTXOIDLen = IDLen + 2

// AssetID identifies a fungible asset.
type AssetID [IDLen]byte

// Address is a b256 account address.
type Address [IDLen]byte

// Nonce identifies a bridged message.
type Nonce [IDLen]byte

// BaseAssetID is the native fee-paying asset of the network.
var BaseAssetID = AssetID{}

// UTXOID identifies a coin by the transaction that created it and the
// output index inside that transaction.
type UTXOID struct {
	TxID        [IDLen]byte
	OutputIndex uint16
}

func decodeFixed(s string, n int) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if len(s) != n*2 {
		return nil, fmt.Errorf("%w: want %d hex chars, got %d", ErrInvalidHex, n*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return b, nil
}

func encodeHex(b []byte) string { return "0x" + hex.EncodeToString(b) }

// ParseAssetID parses a 32-byte hex asset id, with or without 0x prefix.
func ParseAssetID(s string) (AssetID, error) {
	var id AssetID
	b, err := decodeFixed(s, IDLen)
	if err != nil {
		return id, err
	}
	copy(id[:], b)
	return id, nil
}

// MustAssetID is like ParseAssetID but panics on error.
func MustAssetID(s string) AssetID {
	id, err := ParseAssetID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func (a AssetID) String() string { return encodeHex(a[:]) }

// IsBase reports whether a is the base asset.
func (a AssetID) IsBase() bool { return a == BaseAssetID }

func (a AssetID) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *AssetID) UnmarshalText(text []byte) error {
	id, err := ParseAssetID(string(text))
	if err != nil {
		return err
	}
	*a = id
	return nil
}

// ParseAddress parses a 32-byte hex address, with or without 0x prefix.
func ParseAddress(s string) (Address, error) {
	var addr Address
	b, err := decodeFixed(s, IDLen)
	if err != nil {
		return addr, err
	}
	copy(addr[:], b)
	return addr, nil
}

// MustAddress is like ParseAddress but panics on error.
func MustAddress(s string) Address {
	addr, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return addr
}

func (a Address) String() string { return encodeHex(a[:]) }

func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Address) UnmarshalText(text []byte) error {
	addr, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseNonce parses a 32-byte hex message nonce.
func ParseNonce(s string) (Nonce, error) {
	var n Nonce
	b, err := decodeFixed(s, IDLen)
	if err != nil {
		return n, err
	}
	copy(n[:], b)
	return n, nil
}

func (n Nonce) String() string { return encodeHex(n[:]) }

func (n Nonce) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

func (n *Nonce) UnmarshalText(text []byte) error {
	parsed, err := ParseNonce(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// ParseUTXOID parses the 34-byte hex form produced by UTXOID.String.
func ParseUTXOID(s string) (UTXOID, error) {
	var id UTXOID
	b, err := decodeFixed(s, UTXOIDLen)
	if err != nil {
		return id, err
	}
	copy(id.TxID[:], b[:IDLen])
	id.OutputIndex = binary.BigEndian.Uint16(b[IDLen:])
	return id, nil
}

// Bytes returns the 34-byte encoding: tx id followed by the big-endian index.
func (u UTXOID) Bytes() []byte {
	b := make([]byte, UTXOIDLen)
	copy(b, u.TxID[:])
	binary.BigEndian.PutUint16(b[IDLen:], u.OutputIndex)
	return b
}

func (u UTXOID) String() string { return encodeHex(u.Bytes()) }

func (u UTXOID) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

func (u *UTXOID) UnmarshalText(text []byte) error {
	id, err := ParseUTXOID(string(text))
	if err != nil {
		return err
	}
	*u = id
	return nil
}
