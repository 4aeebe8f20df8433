// Package fee selects the fee policy that applies to a transfer and prices it.
package fee

import (
	"errors"
	"fmt"
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/shopspring/decimal"
)

// ErrPolicyNotConfigured is returned when no default policy is registered.
var ErrPolicyNotConfigured = errors.New("no default fee policy configured")

// Policy is one entry of the ordered fee policy list.
type Policy struct {
	Type    models.FeePolicyType
	Default bool
	Rate    decimal.Decimal
	// Applicable decides whether a non-default policy covers requestedAt.
	// It is never consulted for the default policy.
	Applicable func(requestedAt time.Time) bool
}

// Quote is the priced outcome of a fee calculation.
type Quote struct {
	PolicyType models.FeePolicyType
	Rate       decimal.Decimal
	FeeAmount  int64
	AppliedAt  time.Time
}

// Engine evaluates an ordered list of policies.
type Engine struct {
	policies []Policy
}

// NewEngine creates an Engine over policies, tested in the given order.
func NewEngine(policies ...Policy) *Engine {
	return &Engine{policies: policies}
}

// Validate checks that exactly one default policy is registered.
func (e *Engine) Validate() error {
	defaults := 0
	for _, p := range e.policies {
		if p.Default {
			defaults++
		}
	}
	switch {
	case defaults == 0:
		return ErrPolicyNotConfigured
	case defaults > 1:
		return fmt.Errorf("%d default fee policies registered, want exactly one", defaults)
	}
	return nil
}

// Calculate prices amount under the first applicable non-default policy,
// falling back to the default policy.
func (e *Engine) Calculate(amount int64, requestedAt time.Time) (Quote, error) {
	var fallback *Policy
	var chosen *Policy
	for i := range e.policies {
		p := &e.policies[i]
		if p.Default {
			if fallback == nil {
				fallback = p
			}
			continue
		}
		if p.Applicable != nil && p.Applicable(requestedAt) {
			chosen = p
			break
		}
	}
	if chosen == nil {
		if fallback == nil {
			return Quote{}, ErrPolicyNotConfigured
		}
		chosen = fallback
	}

	return Quote{
		PolicyType: chosen.Type,
		Rate:       chosen.Rate,
		FeeAmount:  Amount(amount, chosen.Rate),
		AppliedAt:  requestedAt,
	}, nil
}

// Amount returns floor(amount * rate).
func Amount(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Floor().IntPart()
}
