// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package scan

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/siderolabs/ippopper/internal/address"
)

const sysClassNet = "/sys/class/net"

// ARPHRD_* link types, see linux/if_arp.h.
const (
	arphrdPPP     = 512
	arphrdTunnel  = 768
	arphrdTunnel6 = 769
	arphrdSIT     = 776
	arphrdIPGRE   = 778
	arphrdIP6GRE  = 823
	arphrdNone    = 65534 // tun devices, wireguard
)

func linkKind(name string) address.Kind {
	linkType, err := strconv.Atoi(readLinkAttr(name, "type"))
	if err != nil {
		return address.KindOther
	}

	switch linkType {
	case arphrdPPP:
		return address.KindPointToPoint
	case arphrdTunnel, arphrdTunnel6, arphrdSIT, arphrdIPGRE, arphrdIP6GRE, arphrdNone:
		return address.KindTunnel
	}

	return address.KindOther
}

func linkDescription(name string) string {
	return readLinkAttr(name, "ifalias")
}

func readLinkAttr(name, attr string) string {
	data, err := os.ReadFile(filepath.Join(sysClassNet, name, attr))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(data))
}
