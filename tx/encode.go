package tx

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"

	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
)

// Bytes returns the canonical encoding of r used for hashing. Witnesses are
// not part of it, so signing does not change the id.
//
// Layout (all integers big-endian):
//
//	type u8 | gasPrice | gasLimit | maturity u32
//	script (u32 len + bytes) | scriptData (u32 len + bytes)
//	inputs (u16 count + each) | outputs (u16 count + each)
//
// Amounts are written as u16 length + minimal big-endian magnitude.
func (r *Request) Bytes() ([]byte, error) {
	if len(r.Inputs) > 0xffff || len(r.Outputs) > 0xffff {
		return nil, fmt.Errorf("%w: too many inputs or outputs", ErrInvalidParams)
	}
	var buf bytes.Buffer
	buf.WriteByte(byte(r.Type()))
	writeAmount(&buf, r.GasPrice)
	writeAmount(&buf, r.GasLimit)
	writeU32(&buf, r.Maturity)
	writeBlob(&buf, r.Script)
	writeBlob(&buf, r.ScriptData)

	writeU16(&buf, uint16(len(r.Inputs)))
	for i, in := range r.Inputs {
		buf.WriteByte(byte(in.InputType()))
		switch v := in.(type) {
		case *CoinInput:
			buf.Write(v.ID.Bytes())
			buf.Write(v.Owner[:])
			writeAmount(&buf, v.Amount)
			buf.Write(v.AssetID[:])
			buf.WriteByte(v.WitnessIndex)
			writeU32(&buf, v.Maturity)
		case *ContractInput:
			buf.Write(v.ContractID[:])
		case *MessageInput:
			buf.Write(v.Nonce[:])
			buf.Write(v.Sender[:])
			buf.Write(v.Recipient[:])
			writeAmount(&buf, v.Amount)
			writeBlob(&buf, v.Data)
			buf.WriteByte(v.WitnessIndex)
		default:
			return nil, fmt.Errorf("%w: input[%d] has unknown type %T", ErrInvalidParams, i, in)
		}
	}

	writeU16(&buf, uint16(len(r.Outputs)))
	for i, out := range r.Outputs {
		buf.WriteByte(byte(out.OutputType()))
		switch v := out.(type) {
		case *CoinOutput:
			buf.Write(v.To[:])
			writeAmount(&buf, v.Amount)
			buf.Write(v.AssetID[:])
		case *ContractOutput:
			buf.WriteByte(v.InputIndex)
		case *ChangeOutput:
			buf.Write(v.To[:])
			buf.Write(v.AssetID[:])
		case *VariableOutput:
		default:
			return nil, fmt.Errorf("%w: output[%d] has unknown type %T", ErrInvalidParams, i, out)
		}
	}
	return buf.Bytes(), nil
}

// ID returns sha256(chainID || Bytes()).
func (r *Request) ID(chainID uint64) ([coin.IDLen]byte, error) {
	var id [coin.IDLen]byte
	body, err := r.Bytes()
	if err != nil {
		return id, err
	}
	pre := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint64(pre, chainID)
	copy(id[:], bsvhash.Sha256(append(pre, body...)))
	return id, nil
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeBlob(buf *bytes.Buffer, data []byte) {
	writeU32(buf, uint32(len(data)))
	buf.Write(data)
}

func writeAmount(buf *bytes.Buffer, a amount.Amount) {
	mag := a.Big().Bytes()
	writeU16(buf, uint16(len(mag)))
	buf.Write(mag)
}
