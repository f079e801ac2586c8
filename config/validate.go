// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validNetworks lists the accepted network names.
var validNetworks = map[string]bool{
	"mainnet": true,
	"testnet": true,
	"local":   true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validNetworks[cfg.Network] {
		return ErrInvalidNetwork
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if cfg.RPC.URL != "" {
		u, err := url.Parse(cfg.RPC.URL)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRPCURL, err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %q", ErrInvalidRPCURL, cfg.RPC.URL)
		}
	}

	if cfg.Discovery.Domain != "" && cfg.Discovery.DNSSEC {
		if err := validateAddr(cfg.Discovery.Upstream); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidUpstream, err)
		}
	}

	if cfg.Redis.Addr != "" && cfg.Redis.ReservationTTL <= 0 {
		return ErrInvalidReservationTTL
	}

	return nil
}

// validateAddr checks that addr is a valid host:port address.
func validateAddr(addr string) error {
	_, _, err := net.SplitHostPort(addr)
	return err
}
