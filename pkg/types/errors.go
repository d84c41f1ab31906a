package types

import "errors"

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Entity errors returned by Store implementations.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidID       = errors.New("invalid entity ID")
	ErrInvalidData     = errors.New("invalid entity data")
	ErrArchived        = errors.New("entity is archived")
	ErrUnknownBehavior = errors.New("behavior does not belong to client")
)

// Cell and interval errors.
var (
	ErrInvalidValue    = errors.New("invalid cell value")
	ErrInvalidStatus   = errors.New("invalid row status")
	ErrInvalidInterval = errors.New("interval index out of range")
	ErrInvalidDate     = errors.New("invalid session date")
	ErrInvalidTime     = errors.New("invalid clock time")
)

// Save coordination errors.
var (
	ErrSaveInFlight = errors.New("a save is already in progress")
	ErrNoChanges    = errors.New("no unsaved changes")
)
