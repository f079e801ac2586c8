package tx

import (
	"github.com/bitfsorg/libfund-go/amount"
	"github.com/bitfsorg/libfund-go/coin"
)

// InputType identifies the kind of a transaction input.
type InputType uint8

const (
	InputCoin InputType = iota
	InputContract
	InputMessage
)

// Input is one of *CoinInput, *ContractInput or *MessageInput.
type Input interface {
	InputType() InputType
}

// CoinInput spends a coin.
type CoinInput struct {
	ID           coin.UTXOID
	Owner        coin.Address
	Amount       amount.Amount
	AssetID      coin.AssetID
	WitnessIndex uint8
	Maturity     uint32
}

// ContractInput references a contract touched by the script.
type ContractInput struct {
	ContractID [coin.IDLen]byte
}

// MessageInput spends a bridged message.
type MessageInput struct {
	Nonce        coin.Nonce
	Sender       coin.Address
	Recipient    coin.Address
	Amount       amount.Amount
	Data         []byte
	WitnessIndex uint8
}

func (*CoinInput) InputType() InputType     { return InputCoin }
func (*ContractInput) InputType() InputType { return InputContract }
func (*MessageInput) InputType() InputType  { return InputMessage }

// OutputType identifies the kind of a transaction output.
type OutputType uint8

const (
	OutputCoin OutputType = iota
	OutputContract
	OutputChange
	OutputVariable
)

// Output is one of *CoinOutput, *ContractOutput, *ChangeOutput or *VariableOutput.
type Output interface {
	OutputType() OutputType
}

// CoinOutput sends Amount of AssetID to To.
type CoinOutput struct {
	To      coin.Address
	Amount  amount.Amount
	AssetID coin.AssetID
}

// ContractOutput carries the state of the contract at InputIndex.
type ContractOutput struct {
	InputIndex uint8
}

// ChangeOutput receives whatever is left of AssetID after fees and outputs.
type ChangeOutput struct {
	To      coin.Address
	AssetID coin.AssetID
}

// VariableOutput is filled in by the script at execution time.
type VariableOutput struct{}

func (*CoinOutput) OutputType() OutputType     { return OutputCoin }
func (*ContractOutput) OutputType() OutputType { return OutputContract }
func (*ChangeOutput) OutputType() OutputType   { return OutputChange }
func (*VariableOutput) OutputType() OutputType { return OutputVariable }
