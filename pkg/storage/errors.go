package storage

import "errors"

// ErrNotFound is returned when a transaction record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateRequest is returned when a (account, request id) pair is already recorded.
var ErrDuplicateRequest = errors.New("duplicate request id for account")

// ErrLockTimeout is returned when a row lock could not be acquired in time,
// including aborts by a deadlock detector. The whole unit has been rolled back
// and the operation may be retried with the same request id.
var ErrLockTimeout = errors.New("timed out waiting for row lock")
