package db

import "errors"

var (
	// ErrDuplicate reports a unique-constraint hit on an insert that is not
	// allowed to overwrite (bookmarks). Most other duplicate inserts are
	// treated as no-op success instead.
	ErrDuplicate = errors.New("record already exists")

	// ErrNotFound reports a lookup miss for a row expected to exist.
	ErrNotFound = errors.New("record not found")
)
