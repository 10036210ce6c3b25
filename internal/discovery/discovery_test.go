// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package discovery_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/siderolabs/ippopper/internal/address"
	"github.com/siderolabs/ippopper/internal/discovery"
	"github.com/siderolabs/ippopper/internal/external"
	"github.com/siderolabs/ippopper/internal/scan"
)

type staticLister []scan.Interface

func (l staticLister) Interfaces() ([]scan.Interface, error) { return l, nil }

type failingLister struct{ err error }

func (l failingLister) Interfaces() ([]scan.Interface, error) { return nil, l.err }

type staticDetector string

func (d staticDetector) Detect(context.Context) string { return string(d) }

type staticResolver external.Result

func (r staticResolver) Resolve(context.Context) external.Result { return external.Result(r) }

func hostInterfaces() staticLister {
	return staticLister{
		{Name: "eth0", Up: true, Addrs: []netip.Addr{netip.MustParseAddr("10.0.0.4")}},
		{Name: "wlan0", Up: true, Addrs: []netip.Addr{netip.MustParseAddr("192.168.1.20")}},
	}
}

func newService(t *testing.T, lister scan.Lister, primary string, resolver discovery.Resolver) *discovery.Service {
	t.Helper()

	logger := zaptest.NewLogger(t)

	return discovery.NewService(scan.NewScanner(lister, staticDetector(primary), logger), resolver, logger)
}

func TestPrimaryLocalAddress(t *testing.T) {
	t.Parallel()

	svc := newService(t, hostInterfaces(), "192.168.1.20", staticResolver{})

	primary, err := svc.PrimaryLocalAddress(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.20", primary)
}

func TestPrimaryLocalAddressNotFound(t *testing.T) {
	t.Parallel()

	for _, test := range []struct {
		name    string
		lister  scan.Lister
		primary string
	}{
		{name: "no interfaces", lister: staticLister{}, primary: "192.168.1.20"},
		{name: "route probe failed", lister: hostInterfaces(), primary: ""},
		{name: "primary on no interface", lister: hostInterfaces(), primary: "172.16.0.9"},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			svc := newService(t, test.lister, test.primary, staticResolver{})

			primary, err := svc.PrimaryLocalAddress(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "No IP found", primary)
		})
	}
}

func TestAllAddresses(t *testing.T) {
	t.Parallel()

	svc := newService(t, hostInterfaces(), "192.168.1.20", staticResolver{Address: "203.0.113.7", Provider: "https://api.ipify.org"})

	records, err := svc.AllAddresses(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []address.Record{
		{Address: "192.168.1.20", Category: address.CategoryLAN, InterfaceName: "wlan0", MACAddress: "N/A", IsPrimary: true},
		{Address: "10.0.0.4", Category: address.CategoryLAN, InterfaceName: "eth0", MACAddress: "N/A"},
		{Address: "203.0.113.7", Category: address.CategoryExternal, InterfaceName: "Internet", MACAddress: "N/A"},
	}, records)
}

func TestAllAddressesExternalUnknown(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	resolver := external.NewResolver(zaptest.NewLogger(t),
		external.WithProviders(server.URL+"/a", server.URL+"/b", server.URL+"/c", server.URL+"/d"),
		external.WithHTTPClient(server.Client()),
	)

	svc := newService(t, hostInterfaces(), "", resolver)

	records, err := svc.AllAddresses(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	last := records[len(records)-1]

	assert.Equal(t, "Unable to determine", last.Address)
	assert.Equal(t, address.Category("External/Public"), last.Category)
	assert.Equal(t, "Internet", last.InterfaceName)
	assert.False(t, last.IsPrimary)

	for _, record := range records[:len(records)-1] {
		assert.NotEqual(t, address.CategoryExternal, record.Category)
	}
}

func TestAllAddressesNoLocal(t *testing.T) {
	t.Parallel()

	svc := newService(t, staticLister{}, "", staticResolver{})

	records, err := svc.AllAddresses(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []address.Record{address.External("")}, records)
}

func TestEnumerationFailurePropagates(t *testing.T) {
	t.Parallel()

	errEnumeration := errors.New("interface enumeration failed")

	svc := newService(t, failingLister{err: errEnumeration}, "", staticResolver{})

	_, err := svc.PrimaryLocalAddress(context.Background())
	require.ErrorIs(t, err, errEnumeration)

	_, err = svc.AllAddresses(context.Background())
	require.ErrorIs(t, err, errEnumeration)

	_, err = svc.LocalAddresses(context.Background())
	require.ErrorIs(t, err, errEnumeration)
}
