// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/siderolabs/ippopper/internal/address"
	"github.com/siderolabs/ippopper/internal/server"
)

type fakeService struct {
	err     error
	primary string
	local   []address.Record
}

func (s *fakeService) PrimaryLocalAddress(context.Context) (string, error) {
	return s.primary, s.err
}

func (s *fakeService) LocalAddresses(context.Context) ([]address.Record, error) {
	return s.local, s.err
}

func (s *fakeService) AllAddresses(context.Context) ([]address.Record, error) {
	if s.err != nil {
		return nil, s.err
	}

	return append(append([]address.Record(nil), s.local...), address.External("203.0.113.7")), nil
}

func newFakeService() *fakeService {
	return &fakeService{
		primary: "192.168.1.20",
		local: []address.Record{
			{Address: "192.168.1.20", Category: address.CategoryLAN, InterfaceName: "wlan0", MACAddress: "AA:BB:CC:DD:EE:FF", IsPrimary: true},
		},
	}
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))

	return recorder
}

func TestPrimary(t *testing.T) {
	t.Parallel()

	handler := server.NewHandler(newFakeService(), zaptest.NewLogger(t))

	resp := get(t, handler, "/primary")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "text/plain", resp.Header().Get("Content-Type"))
	assert.Equal(t, "192.168.1.20\n", resp.Body.String())
}

func TestAddresses(t *testing.T) {
	t.Parallel()

	handler := server.NewHandler(newFakeService(), zaptest.NewLogger(t))

	resp := get(t, handler, "/addresses")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "application/json", resp.Header().Get("Content-Type"))

	var records []address.Record

	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.True(t, records[0].IsPrimary)
	assert.Equal(t, address.CategoryExternal, records[1].Category)

	assert.Contains(t, resp.Body.String(), `"interface_name":"Internet"`)
}

func TestAddressesLocalOnly(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	svc.local = nil

	handler := server.NewHandler(svc, zaptest.NewLogger(t))

	resp := get(t, handler, "/addresses?external=false")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `[]`, resp.Body.String())

	resp = get(t, handler, "/addresses?external=maybe")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestEnumerationFailure(t *testing.T) {
	t.Parallel()

	svc := newFakeService()
	svc.err = errors.New("no network stack")

	handler := server.NewHandler(svc, zaptest.NewLogger(t))

	assert.Equal(t, http.StatusInternalServerError, get(t, handler, "/primary").Code)
	assert.Equal(t, http.StatusInternalServerError, get(t, handler, "/addresses").Code)
}

func TestMethodNotAllowed(t *testing.T) {
	t.Parallel()

	handler := server.NewHandler(newFakeService(), zaptest.NewLogger(t))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/primary", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestServe(t *testing.T) {
	t.Parallel()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := server.New(listener.Addr().String(), newFakeService(), zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)

	go func() {
		errCh <- srv.Serve(ctx, listener)
	}()

	resp, err := http.Get("http://" + listener.Addr().String() + "/healthz")
	require.NoError(t, err)

	_, err = io.Copy(io.Discard, resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err = <-errCh:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}
