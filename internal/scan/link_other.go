// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

//go:build !linux

package scan

import "github.com/siderolabs/ippopper/internal/address"

func linkKind(string) address.Kind { return address.KindOther }

func linkDescription(string) string { return "" }
