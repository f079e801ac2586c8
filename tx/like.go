package tx

import (
	"fmt"

	"github.com/bitfsorg/libfund-go/amount"
)

// RequestLike is anything Transactionify can turn into a *Request:
// a *Request itself or a Like.
type RequestLike interface {
	toRequest() (*Request, error)
}

// Like is the loose shape of a request, as built by callers that do not
// want to construct a Request directly.
type Like struct {
	Type       Type
	GasPrice   amount.Amount
	GasLimit   amount.Amount
	Maturity   uint32
	Script     []byte
	ScriptData []byte
	Inputs     []Input
	Outputs    []Output
	Witnesses  [][]byte
}

func (r *Request) toRequest() (*Request, error) { return r, nil }

func (l Like) toRequest() (*Request, error) {
	if l.Type != TypeScript {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedType, l.Type)
	}
	req := NewScriptRequest(Params{
		GasPrice:   l.GasPrice,
		GasLimit:   l.GasLimit,
		Maturity:   l.Maturity,
		Script:     l.Script,
		ScriptData: l.ScriptData,
	})
	req.Inputs = append(req.Inputs, l.Inputs...)
	req.Outputs = append(req.Outputs, l.Outputs...)
	for _, w := range l.Witnesses {
		req.Witnesses = append(req.Witnesses, append([]byte(nil), w...))
	}
	return req, nil
}

// Transactionify normalizes like into a *Request. A *Request is returned
// unchanged so callers keep observing the same instance.
func Transactionify(like RequestLike) (*Request, error) {
	if like == nil {
		return nil, fmt.Errorf("%w: request", ErrNilParam)
	}
	if r, ok := like.(*Request); ok && r == nil {
		return nil, fmt.Errorf("%w: request", ErrNilParam)
	}
	return like.toRequest()
}
