package fee

import (
	"time"

	"github.com/chris/remittance-ledger/pkg/models"
	"github.com/shopspring/decimal"
)

var (
	DefaultRate = decimal.RequireFromString("0.01")
	NightRate   = decimal.RequireFromString("0.02")
)

// Night window bounds, local hour of day. The start is inclusive, the end exclusive.
const (
	nightStartHour = 23
	nightEndHour   = 6
)

// DefaultPolicy is the fallback policy.
func DefaultPolicy() Policy {
	return Policy{
		Type:    models.FeePolicyDefault,
		Default: true,
		Rate:    DefaultRate,
	}
}

// NightPolicy applies between 23:00 and 06:00 of requestedAt in loc.
func NightPolicy(loc *time.Location) Policy {
	if loc == nil {
		loc = time.Local
	}
	return Policy{
		Type: models.FeePolicyNight,
		Rate: NightRate,
		Applicable: func(requestedAt time.Time) bool {
			hour := requestedAt.In(loc).Hour()
			return hour >= nightStartHour || hour < nightEndHour
		},
	}
}

// NewStandardEngine returns the production policy set: night first, then default.
func NewStandardEngine(loc *time.Location) *Engine {
	return NewEngine(NightPolicy(loc), DefaultPolicy())
}
