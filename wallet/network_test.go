package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNetwork(t *testing.T) {
	tests := []struct {
		name    string
		netName string
		wantErr bool
	}{
		{"mainnet", "mainnet", false},
		{"testnet", "testnet", false},
		{"local", "local", false},
		{"unknown", "foonet", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := GetNetwork(tt.netName)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidNetwork)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.netName, net.Name)
				assert.NotZero(t, net.DefaultGasLimit)
			}
		})
	}
}

func TestLoadCustomNetwork_ValidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.json")
	content := `{
		"name": "custom-net",
		"chain_id": 42,
		"default_gas_limit": 5000,
		"min_gas_price": 2,
		"base_decimals": 6
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	net, err := LoadCustomNetwork(path)
	require.NoError(t, err)
	assert.Equal(t, "custom-net", net.Name)
	assert.Equal(t, uint64(42), net.ChainID)
	assert.Equal(t, uint64(5000), net.DefaultGasLimit)
	assert.Equal(t, uint64(2), net.MinGasPrice)
	assert.Equal(t, int32(6), net.BaseDecimals)
}

func TestLoadCustomNetwork_FileNotFound(t *testing.T) {
	_, err := LoadCustomNetwork("/nonexistent/path/network.json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read network config")
}

func TestLoadCustomNetwork_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not valid json!!"), 0o600))

	_, err := LoadCustomNetwork(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse network config")
}

func TestLoadCustomNetwork_MissingName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noname.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"chain_id": 1}`), 0o600))

	_, err := LoadCustomNetwork(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must have a name")
}
