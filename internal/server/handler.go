// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/siderolabs/ippopper/internal/address"
)

// Service is the address discovery service.
type Service interface {
	PrimaryLocalAddress(ctx context.Context) (string, error)
	LocalAddresses(ctx context.Context) ([]address.Record, error)
	AllAddresses(ctx context.Context) ([]address.Record, error)
}

type handler struct {
	service Service
	logger  *zap.Logger
}

// primary serves the primary local address as plain text.
func (h *handler) primary(w http.ResponseWriter, req *http.Request) {
	primary, err := h.service.PrimaryLocalAddress(req.Context())
	if err != nil {
		h.logger.Error("failed to get primary address", zap.Error(err))
		http.Error(w, "failed to discover addresses", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)

	if _, err = w.Write([]byte(primary + "\n")); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

// addresses serves the address records as JSON.
//
// URL pattern: http://host:port/addresses?external=false
func (h *handler) addresses(w http.ResponseWriter, req *http.Request) {
	withExternal := true

	if val := req.URL.Query().Get("external"); val != "" {
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			http.Error(w, "invalid external parameter", http.StatusBadRequest)

			return
		}

		withExternal = parsed
	}

	fetch := h.service.AllAddresses
	if !withExternal {
		fetch = h.service.LocalAddresses
	}

	records, err := fetch(req.Context())
	if err != nil {
		h.logger.Error("failed to get addresses", zap.Error(err))
		http.Error(w, "failed to discover addresses", http.StatusInternalServerError)

		return
	}

	if records == nil {
		records = []address.Record{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err = json.NewEncoder(w).Encode(records); err != nil {
		h.logger.Error("failed to write response", zap.Error(err))
	}
}

func (h *handler) healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}
