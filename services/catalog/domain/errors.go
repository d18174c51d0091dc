package domain

import "errors"

// Sentinel errors for the catalog domain. Use errors.Is() to check these.
var (
	// ErrNotFound indicates the requested item does not exist.
	ErrNotFound = errors.New("item not found")

	// ErrEmptyResult indicates a valid listing query that matched nothing.
	ErrEmptyResult = errors.New("items not found")

	// ErrConflict indicates an item with the same content reference already exists.
	ErrConflict = errors.New("item has been created already")

	// ErrReferenceNotFound indicates a dangling collection reference at creation time.
	ErrReferenceNotFound = errors.New("collection not found")

	// ErrInvalidArgument indicates malformed caller input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConnectivity indicates the store was unreachable or timed out.
	ErrConnectivity = errors.New("could not connect to the database")

	// ErrPersistence indicates the store rejected a write.
	ErrPersistence = errors.New("failed to create a new item")
)
