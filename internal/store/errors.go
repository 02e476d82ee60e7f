// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import "errors"

var (
	// ErrNotFound indicates the owner has no page record (or the referenced
	// row does not exist).
	ErrNotFound = errors.New("not found")

	// ErrNoDraft indicates a publish was attempted with nothing to promote.
	ErrNoDraft = errors.New("no draft to publish")
)
