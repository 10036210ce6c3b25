// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package address provides the address record model and the address classifier.
package address

import (
	"net"
	"net/netip"
	"strings"
)

// Category is the semantic classification of an address.
type Category string

// Categories, their values are the labels shown to the user.
const (
	CategoryLoopback  Category = "Local/Loopback"
	CategoryLinkLocal Category = "Local/Link-Local"
	CategoryVPN       Category = "Local/VPN"
	CategoryLAN       Category = "Local/LAN"
	CategoryPublic    Category = "Local/Public"
	CategoryExternal  Category = "External/Public"
)

// Kind describes the type of the interface an address is bound to.
type Kind int

// Interface kinds relevant for classification.
const (
	KindOther Kind = iota
	KindLoopback
	KindTunnel
	KindPointToPoint
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindLoopback:
		return "loopback"
	case KindTunnel:
		return "tunnel"
	case KindPointToPoint:
		return "point-to-point"
	case KindOther:
		fallthrough
	default:
		return "other"
	}
}

const (
	// ExternalInterfaceName is the interface name of the external address record.
	ExternalInterfaceName = "Internet"

	// NotAvailable is used in place of a missing hardware address.
	NotAvailable = "N/A"

	// Undetermined is the address of the external record when no provider answered.
	Undetermined = "Unable to determine"
)

// Record is a single discovered address.
type Record struct {
	Address       string   `json:"address"`
	Category      Category `json:"category"`
	InterfaceName string   `json:"interface_name"`
	MACAddress    string   `json:"mac_address"`
	IsPrimary     bool     `json:"is_primary"`
}

// External builds the record of the externally visible address.
//
// An empty address yields the placeholder record.
func External(addr string) Record {
	if addr == "" {
		addr = Undetermined
	}

	return Record{
		Address:       addr,
		Category:      CategoryExternal,
		InterfaceName: ExternalInterfaceName,
		MACAddress:    NotAvailable,
	}
}

// FormatMAC formats the hardware address as uppercase colon separated hex.
func FormatMAC(hw net.HardwareAddr) string {
	if len(hw) == 0 {
		return NotAvailable
	}

	return strings.ToUpper(hw.String())
}

// Classify returns the category of the address bound to the interface with the given kind, name and description.
//
// Checks are ordered, the first match wins.
func Classify(addr netip.Addr, kind Kind, name, description string) Category {
	switch {
	case addr.IsLoopback():
		return CategoryLoopback
	case isLinkLocal(addr):
		return CategoryLinkLocal
	case isVPN(kind, name, description):
		return CategoryVPN
	case isPrivate(addr) || isCarrierGradeNAT(addr):
		return CategoryLAN
	default:
		return CategoryPublic
	}
}

func isVPN(kind Kind, name, description string) bool {
	if kind == KindTunnel || kind == KindPointToPoint {
		return true
	}

	return containsFold(name, "vpn") || containsFold(description, "vpn")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

// octets returns the 4 bytes of an IPv4 address, ok is false for anything else.
func octets(addr netip.Addr) (b [4]byte, ok bool) {
	if !addr.Is4() {
		return b, false
	}

	return addr.As4(), true
}

// 169.254.0.0/16
func isLinkLocal(addr netip.Addr) bool {
	b, ok := octets(addr)

	return ok && b[0] == 169 && b[1] == 254
}

// 10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16
func isPrivate(addr netip.Addr) bool {
	b, ok := octets(addr)
	if !ok {
		return false
	}

	switch {
	case b[0] == 10:
		return true
	case b[0] == 172 && b[1] >= 16 && b[1] <= 31:
		return true
	case b[0] == 192 && b[1] == 168:
		return true
	}

	return false
}

// 100.64.0.0/10, RFC 6598
func isCarrierGradeNAT(addr netip.Addr) bool {
	b, ok := octets(addr)

	return ok && b[0] == 100 && b[1] >= 64 && b[1] <= 127
}
