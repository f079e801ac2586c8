package network

import "errors"

var (
	// ErrConnectionFailed indicates the client could not connect to the node.
	ErrConnectionFailed = errors.New("network: connection failed")

	// ErrAuthFailed indicates authentication (e.g., RPC credentials) was rejected.
	ErrAuthFailed = errors.New("network: authentication failed")

	// ErrBroadcastRejected indicates the node rejected the submitted transaction.
	ErrBroadcastRejected = errors.New("network: broadcast rejected")

	// ErrInvalidResponse indicates the node returned a malformed or unexpected response.
	ErrInvalidResponse = errors.New("network: invalid response")

	// ErrInsufficientFunds indicates the owner's spendable resources do not
	// cover the requested quantities.
	ErrInsufficientFunds = errors.New("network: not enough coins to fit the target")

	// ErrMaxInputsExceeded indicates covering the quantities needs more
	// inputs than a transaction may carry.
	ErrMaxInputsExceeded = errors.New("network: max number of inputs exceeded")

	// ErrNoRPCEndpoint indicates no URL, discovered endpoint or preset is
	// available for the network.
	ErrNoRPCEndpoint = errors.New("network: no RPC endpoint")

	// ErrInvalidEndpoint indicates a resolved RPC URL that is not an absolute
	// http(s) URL.
	ErrInvalidEndpoint = errors.New("network: invalid RPC endpoint")

	// ErrDNSLookupFailed indicates a DNS query returned an error.
	ErrDNSLookupFailed = errors.New("network: DNS lookup failed")

	// ErrNoEndpoints indicates SRV discovery found no node endpoints.
	ErrNoEndpoints = errors.New("network: no endpoints found")

	// ErrDNSSECValidationFailed indicates the upstream resolver did not
	// authenticate the answer.
	ErrDNSSECValidationFailed = errors.New("network: DNSSEC validation failed")
)
