// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidNetwork indicates the network name is not recognized.
	ErrInvalidNetwork = errors.New("config: invalid network (must be \"mainnet\", \"testnet\", or \"local\")")

	// ErrInvalidLogLevel indicates the log level is not recognized.
	ErrInvalidLogLevel = errors.New("config: invalid log level (must be \"debug\", \"info\", \"warn\", or \"error\")")

	// ErrEmptyDataDir indicates the data directory path is empty.
	ErrEmptyDataDir = errors.New("config: data directory must not be empty")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigFile indicates a configuration file that does not parse.
	ErrInvalidConfigFile = errors.New("config: invalid configuration file")

	// ErrInvalidRPCURL indicates an RPC URL that is not absolute http(s).
	ErrInvalidRPCURL = errors.New("config: invalid RPC URL")

	// ErrInvalidUpstream indicates a DNS upstream that is not host:port.
	ErrInvalidUpstream = errors.New("config: invalid DNS upstream address")

	// ErrInvalidReservationTTL indicates a non-positive TTL with Redis enabled.
	ErrInvalidReservationTTL = errors.New("config: reservation TTL must be positive when redis is configured")
)
