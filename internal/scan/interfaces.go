// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package scan

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/insomniacslk/dhcp/interfaces"

	"github.com/siderolabs/ippopper/internal/address"
)

// Interface is a network interface as seen by the scanner.
type Interface struct {
	Name         string
	Description  string
	HardwareAddr net.HardwareAddr
	Addrs        []netip.Addr
	Kind         address.Kind
	Up           bool
}

// Lister lists the network interfaces of the host.
type Lister interface {
	Interfaces() ([]Interface, error)
}

// OSLister lists the non-loopback interfaces of the running host.
type OSLister struct{}

// Interfaces implements Lister.
func (OSLister) Interfaces() ([]Interface, error) {
	netIfaces, err := interfaces.GetNonLoopbackInterfaces()
	if err != nil {
		return nil, err
	}

	result := make([]Interface, 0, len(netIfaces))

	for _, netIface := range netIfaces {
		addrs, err := netIface.Addrs()
		if err != nil {
			return nil, fmt.Errorf("failed to get addresses of %q: %w", netIface.Name, err)
		}

		result = append(result, Interface{
			Name:         netIface.Name,
			Description:  linkDescription(netIface.Name),
			HardwareAddr: netIface.HardwareAddr,
			Addrs:        toAddrs(addrs),
			Kind:         kindOf(netIface),
			Up:           netIface.Flags&net.FlagUp != 0,
		})
	}

	return result, nil
}

func kindOf(iface net.Interface) address.Kind {
	switch {
	case iface.Flags&net.FlagLoopback != 0:
		return address.KindLoopback
	case iface.Flags&net.FlagPointToPoint != 0:
		return address.KindPointToPoint
	}

	return linkKind(iface.Name)
}

func toAddrs(addrs []net.Addr) []netip.Addr {
	result := make([]netip.Addr, 0, len(addrs))

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}

		ip := ipNet.IP
		if ip4 := ip.To4(); ip4 != nil {
			ip = ip4
		}

		parsed, ok := netip.AddrFromSlice(ip)
		if !ok {
			continue
		}

		result = append(result, parsed)
	}

	return result
}
