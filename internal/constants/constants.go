// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package constants provides constants shared across the packages.
package constants

import "time"

const (
	// ProbeTarget is the address the primary route probe connects to.
	//
	// Any port works, nothing is ever sent to it.
	ProbeTarget = "8.8.8.8:65530"

	// ExternalRequestTimeout is the timeout of a single external address provider request.
	ExternalRequestTimeout = 10 * time.Second

	// ListenAddress is the default address of the HTTP API.
	ListenAddress = "127.0.0.1:50080"

	// NoPrimaryAddress is returned in place of the primary address when there is none.
	NoPrimaryAddress = "No IP found"
)

// ExternalProviders returns the external address providers in the order they are queried.
func ExternalProviders() []string {
	return []string{
		"https://api.ipify.org",
		"https://icanhazip.com",
		"https://ipecho.net/plain",
		"https://myexternalip.com/raw",
	}
}
