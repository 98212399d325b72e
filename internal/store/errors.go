// Uplift - Community Action Platform Backend
// Copyright 2026 Uplift Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/uplift-hq/uplift

package store

import (
	"errors"
	"fmt"
)

// StorageError wraps a MongoDB driver error with the operation and collection
// that produced it. Handlers map any StorageError to a 500 STORAGE_ERROR
// response; the wrapped cause is logged server-side only.
type StorageError struct {
	Op         string
	Collection string
	Err        error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s on %s: %v", e.Op, e.Collection, e.Err)
}

// Unwrap returns the underlying driver error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// wrapErr wraps a driver error into a StorageError. Returns nil when err is
// nil so call sites can wrap unconditionally.
func wrapErr(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Collection: collection, Err: err}
}

// IsStorageError reports whether err is or wraps a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
