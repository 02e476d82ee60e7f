// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Linkfolio JSON API.
// Handlers are grouped into structs by concern (Public, Auth, Owner,
// HeroAdmin), each constructed with the stores it needs.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"linkfolio/internal/pageconfig"
)

// maxBodySize caps JSON request bodies. Page configurations are the largest
// documents the API accepts and stay well under this.
const maxBodySize = 1 << 20 // 1 MB

// writeJSON serializes v and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write json response", "error", err)
	}
}

// jsonError writes a JSON error envelope with the given status code.
func jsonError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// jsonViolations writes the full violation list for an invalid page
// configuration as 422 Unprocessable Entity, so clients can highlight every
// offending field at once.
func jsonViolations(w http.ResponseWriter, verrs pageconfig.ValidationErrors) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":      "invalid page configuration",
		"violations": verrs,
	})
}

// decodeJSON reads a JSON request body into dst, enforcing the body size cap
// and rejecting trailing garbage.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errors.New("malformed JSON body")
	}
	return nil
}
