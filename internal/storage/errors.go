// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
)

// ErrNotRegularFile is returned if an image path names something other than a
// regular file.
var ErrNotRegularFile = errors.New("not a regular file")

// Role is the purpose of a provisioned file.
type Role string

// Roles of provisioned files.
const (
	RolePrimary        Role = "primary disk"
	RoleShared         Role = "shared disk"
	RoleExtra          Role = "extra disk"
	RoleParameterBlock Role = "parameter block"
	RoleRemovable      Role = "removable medium"
)

// ProvisionError is returned if a file could not be provisioned.
type ProvisionError struct {
	Path string
	Role Role
	Err  error
}

// Error implements the [error] interface.
func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provision %s %s: %v", e.Role, e.Path, e.Err)
}

// Is implements the [errors.Is] interface.
func (*ProvisionError) Is(other error) bool {
	_, ok := other.(*ProvisionError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *ProvisionError) Unwrap() error {
	return e.Err
}
