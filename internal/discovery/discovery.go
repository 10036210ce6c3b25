// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package discovery exposes the host address discovery to the consumers.
package discovery

import (
	"context"

	"go.uber.org/zap"

	"github.com/siderolabs/ippopper/internal/address"
	"github.com/siderolabs/ippopper/internal/constants"
	"github.com/siderolabs/ippopper/internal/external"
)

// Scanner scans the local interface addresses.
type Scanner interface {
	Scan(ctx context.Context) ([]address.Record, error)
}

// Resolver resolves the external address.
type Resolver interface {
	Resolve(ctx context.Context) external.Result
}

// Service discovers the addresses of the host.
//
// It holds no state, every call scans and resolves anew.
type Service struct {
	scanner  Scanner
	resolver Resolver
	logger   *zap.Logger
}

// NewService creates a new Service.
func NewService(scanner Scanner, resolver Resolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		scanner:  scanner,
		resolver: resolver,
		logger:   logger,
	}
}

// PrimaryLocalAddress returns the local address used for outbound traffic, or constants.NoPrimaryAddress.
func (s *Service) PrimaryLocalAddress(ctx context.Context) (string, error) {
	records, err := s.scanner.Scan(ctx)
	if err != nil {
		return "", err
	}

	for _, record := range records {
		if record.IsPrimary {
			return record.Address, nil
		}
	}

	s.logger.Info("no primary address found", zap.Int("local_addresses", len(records)))

	return constants.NoPrimaryAddress, nil
}

// LocalAddresses returns the local address records, the primary one first.
func (s *Service) LocalAddresses(ctx context.Context) ([]address.Record, error) {
	return s.scanner.Scan(ctx)
}

// AllAddresses returns the local address records followed by the external address record.
//
// The external record is always present, it holds a placeholder address if the external address is unknown.
func (s *Service) AllAddresses(ctx context.Context) ([]address.Record, error) {
	records, err := s.scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := s.resolver.Resolve(ctx)
	if !result.Found() {
		s.logger.Info("external address is unknown, using placeholder")
	}

	return append(records, address.External(result.Address)), nil
}
