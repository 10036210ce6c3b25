// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package scan collects and classifies the addresses bound to the local network interfaces.
package scan

import (
	"context"
	"fmt"
	"slices"

	"github.com/siderolabs/gen/xslices"
	"go.uber.org/zap"

	"github.com/siderolabs/ippopper/internal/address"
)

// RouteDetector detects the primary local address, returning an empty string if there is none.
type RouteDetector interface {
	Detect(ctx context.Context) string
}

// Scanner produces the address records of the local interfaces.
type Scanner struct {
	lister   Lister
	detector RouteDetector
	logger   *zap.Logger
}

// NewScanner creates a new Scanner.
func NewScanner(lister Lister, detector RouteDetector, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scanner{
		lister:   lister,
		detector: detector,
		logger:   logger,
	}
}

// Scan returns the IPv4 address records of all up, non-loopback interfaces, the primary one first.
func (s *Scanner) Scan(ctx context.Context) ([]address.Record, error) {
	primary := s.detector.Detect(ctx)

	ifaces, err := s.lister.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	ifaces = xslices.Filter(ifaces, func(iface Interface) bool {
		return iface.Up && iface.Kind != address.KindLoopback
	})

	var (
		records      []address.Record
		primaryFound bool
	)

	for _, iface := range ifaces {
		mac := address.FormatMAC(iface.HardwareAddr)

		for _, addr := range iface.Addrs {
			if !addr.Is4() {
				continue
			}

			addrStr := addr.String()

			// the same address may be bound more than once, only the first one is primary
			isPrimary := !primaryFound && primary != "" && addrStr == primary
			if isPrimary {
				primaryFound = true
			}

			records = append(records, address.Record{
				Address:       addrStr,
				Category:      address.Classify(addr, iface.Kind, iface.Name, iface.Description),
				InterfaceName: iface.Name,
				MACAddress:    mac,
				IsPrimary:     isPrimary,
			})
		}
	}

	slices.SortStableFunc(records, func(a, b address.Record) int {
		switch {
		case a.IsPrimary == b.IsPrimary:
			return 0
		case a.IsPrimary:
			return -1
		default:
			return 1
		}
	})

	s.logger.Debug("scanned local addresses", zap.Int("interfaces", len(ifaces)), zap.Int("records", len(records)),
		zap.String("primary", primary), zap.Bool("primary_found", primaryFound))

	return records, nil
}
