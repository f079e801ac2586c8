package tx

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
)

// WithdrawScript is the bytecode that sends the script data's amount of the
// base asset to the base layer recipient it names. It is opaque to this
// library; nodes recognise it by value.
var WithdrawScript = []byte{0x10, 0x48, 0x00, 0x00, 0x5d, 0x44, 0x40, 0x00, 0x3c, 0x48, 0x44, 0x00, 0x24, 0x04, 0x00, 0x00}

// withdrawDataLen is recipient (32) + amount (u64).
const withdrawDataLen = coin.IDLen + 8

// NewWithdrawRequest builds a request that withdraws amt of the base asset
// to recipient on the base layer. amt must fit in a u64.
func NewWithdrawRequest(recipient coin.Address, amt amount.Amount, p Params) (*Request, error) {
	v, ok := amt.Uint64()
	if !ok {
		return nil, fmt.Errorf("%w: withdrawal amount %s exceeds u64", ErrInvalidParams, amt)
	}
	data := make([]byte, withdrawDataLen)
	copy(data, recipient[:])
	binary.BigEndian.PutUint64(data[coin.IDLen:], v)

	p.Script = WithdrawScript
	p.ScriptData = data
	return NewScriptRequest(p), nil
}

// IsWithdrawal reports whether r carries the withdrawal script.
func (r *Request) IsWithdrawal() bool {
	return bytes.Equal(r.Script, WithdrawScript)
}

// DecodeWithdrawal returns the recipient and amount of a withdrawal request.
func (r *Request) DecodeWithdrawal() (coin.Address, amount.Amount, error) {
	var recipient coin.Address
	if !r.IsWithdrawal() {
		return recipient, amount.Zero(), ErrNotWithdrawal
	}
	if len(r.ScriptData) != withdrawDataLen {
		return recipient, amount.Zero(), fmt.Errorf("%w: script data is %d bytes, want %d",
			ErrInvalidParams, len(r.ScriptData), withdrawDataLen)
	}
	copy(recipient[:], r.ScriptData[:coin.IDLen])
	return recipient, amount.New(binary.BigEndian.Uint64(r.ScriptData[coin.IDLen:])), nil
}
