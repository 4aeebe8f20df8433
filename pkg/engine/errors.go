package engine

import (
	"context"
	"errors"

	"github.com/chris/remittance-ledger/pkg/fee"
	"github.com/chris/remittance-ledger/pkg/idempotency"
	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/chris/remittance-ledger/pkg/storage"
)

// Kind classifies an error by how a caller should react to it.
type Kind int

const (
	KindNone Kind = iota
	// KindNotFound: a referenced entity does not exist. State is unchanged.
	KindNotFound
	// KindValidation: the request can never succeed as sent. State is unchanged.
	KindValidation
	// KindRetryable: transient; retry with the same request id.
	KindRetryable
	// KindConfiguration: the service is misconfigured.
	KindConfiguration
	// KindInternal: anything else.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindRetryable:
		return "retryable"
	case KindConfiguration:
		return "configuration"
	default:
		return "internal"
	}
}

var notFoundErrors = []error{
	models.ErrAccountNotFound,
	models.ErrLimitSettingNotFound,
	storage.ErrNotFound,
}

var validationErrors = []error{
	models.ErrInvalidAmount,
	models.ErrMissingRequestID,
	models.ErrSameAccountTransfer,
	models.ErrAccountNotActive,
	models.ErrInsufficientBalance,
	models.ErrExceedDailyLimit,
	models.ErrRequestIDConflict,
	models.ErrInvalidLimit,
	models.ErrInvalidPage,
}

var retryableErrors = []error{
	storage.ErrLockTimeout,
	idempotency.ErrUnavailable,
	context.DeadlineExceeded,
	context.Canceled,
}

// KindOf classifies err by the sentinels in its chain.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, fee.ErrPolicyNotConfigured) {
		return KindConfiguration
	}
	if isAny(err, retryableErrors) {
		return KindRetryable
	}
	if isAny(err, notFoundErrors) {
		return KindNotFound
	}
	if isAny(err, validationErrors) {
		return KindValidation
	}
	return KindInternal
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
