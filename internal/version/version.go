// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

// Package version contains the build information.
package version

var (
	// Name is the application name.
	Name = "ippopper"

	// Tag is set at build time.
	Tag = "none"
)

// UserAgent is sent with outgoing HTTP requests.
func UserAgent() string {
	return Name + "/" + Tag
}
