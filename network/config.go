package network

import (
	"fmt"
	"net/url"
)

// RPCConfig holds the connection parameters for a fund node's JSON-RPC interface.
type RPCConfig struct {
	URL      string `json:"url"`
	User     string `json:"user"`
	Password string `json:"password"`
	Network  string `json:"network"`
}

// Presets holds the node a named network falls back to when neither an
// explicit URL nor a discovered endpoint is available. Mainnet has none.
var Presets = map[string]RPCConfig{
	"local":   {URL: "http://localhost:4000/rpc", User: "fund", Password: "fund"},
	"testnet": {URL: "https://testnet.fundnode.dev/rpc"},
}

// EndpointURL returns the RPC URL served by a discovered host:port.
func EndpointURL(hostport string) string {
	return "https://" + hostport + "/rpc"
}

// Resolve picks the node for network. An explicit URL wins over the first
// discovered endpoint, which wins over the preset. Preset credentials only
// travel with the preset URL; explicit credentials apply to any choice.
func Resolve(network string, explicit RPCConfig, discovered []string) (*RPCConfig, error) {
	out := RPCConfig{Network: network}
	preset, hasPreset := Presets[network]

	switch {
	case explicit.URL != "":
		out.URL = explicit.URL
	case len(discovered) > 0:
		out.URL = EndpointURL(discovered[0])
	case hasPreset:
		out = preset
		out.Network = network
	default:
		return nil, fmt.Errorf("%w: %s has no preset; set rpc.url or discovery.domain", ErrNoRPCEndpoint, network)
	}

	if explicit.User != "" {
		out.User = explicit.User
	}
	if explicit.Password != "" {
		out.Password = explicit.Password
	}
	if err := checkEndpoint(out.URL); err != nil {
		return nil, err
	}
	return &out, nil
}

func checkEndpoint(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidEndpoint, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q must be an absolute http(s) URL", ErrInvalidEndpoint, raw)
	}
	return nil
}
