package wallet

import (
	"encoding/json"
	"fmt"
	"os"
)

// NetworkConfig defines the chain parameters an account builds requests for.
type NetworkConfig struct {
	Name            string `json:"name"`
	ChainID         uint64 `json:"chain_id"`
	DefaultGasLimit uint64 `json:"default_gas_limit"`
	MinGasPrice     uint64 `json:"min_gas_price"`
	BaseDecimals    int32  `json:"base_decimals"`
}

// Predefined network configurations.
var (
	MainNet = NetworkConfig{
		Name:            "mainnet",
		ChainID:         9889,
		DefaultGasLimit: 30_000_000,
		MinGasPrice:     1,
		BaseDecimals:    9,
	}

	TestNet = NetworkConfig{
		Name:            "testnet",
		ChainID:         0,
		DefaultGasLimit: 30_000_000,
		MinGasPrice:     1,
		BaseDecimals:    9,
	}

	Local = NetworkConfig{
		Name:            "local",
		ChainID:         0,
		DefaultGasLimit: 1_000_000,
		MinGasPrice:     0,
		BaseDecimals:    9,
	}
)

// predefined maps network names to their configs.
var predefined = map[string]*NetworkConfig{
	"mainnet": &MainNet,
	"testnet": &TestNet,
	"local":   &Local,
}

// GetNetwork returns a predefined network by name.
// If the name is not predefined, it returns ErrInvalidNetwork.
func GetNetwork(name string) (*NetworkConfig, error) {
	if net, ok := predefined[name]; ok {
		return net, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidNetwork, name)
}

// LoadCustomNetwork loads a NetworkConfig from a JSON file.
func LoadCustomNetwork(path string) (*NetworkConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wallet: failed to read network config: %w", err)
	}

	var config NetworkConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("wallet: failed to parse network config: %w", err)
	}

	if config.Name == "" {
		return nil, fmt.Errorf("wallet: network config must have a name")
	}

	return &config, nil
}
