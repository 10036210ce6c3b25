// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package route detects the local address the OS uses for outbound traffic.
package route

import (
	"context"
	"net"

	"go.uber.org/zap"

	"github.com/siderolabs/ippopper/internal/constants"
)

// Dialer opens network connections.
//
// Implemented by *net.Dialer.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Detector finds the primary local address.
type Detector struct {
	dialer Dialer
	logger *zap.Logger
	target string
}

// NewDetector creates a new Detector probing the given target (host:port).
//
// Empty target defaults to constants.ProbeTarget, nil dialer to a zero net.Dialer.
func NewDetector(target string, dialer Dialer, logger *zap.Logger) *Detector {
	if target == "" {
		target = constants.ProbeTarget
	}

	if dialer == nil {
		dialer = &net.Dialer{}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Detector{
		target: target,
		dialer: dialer,
		logger: logger,
	}
}

// Detect returns the local address of a UDP socket connected to the probe target.
//
// Connecting a UDP socket only asks the routing table for an egress address, no datagram is sent.
// Returns an empty string on any failure.
func (d *Detector) Detect(ctx context.Context) string {
	conn, err := d.dialer.DialContext(ctx, "udp4", d.target)
	if err != nil {
		d.logger.Debug("failed to probe primary route", zap.String("target", d.target), zap.Error(err))

		return ""
	}

	defer conn.Close() //nolint:errcheck

	udpAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || udpAddr.IP == nil {
		d.logger.Debug("unexpected local address of probe socket", zap.Stringer("local_addr", conn.LocalAddr()))

		return ""
	}

	primary := udpAddr.IP.String()

	d.logger.Debug("detected primary address", zap.String("address", primary))

	return primary
}
