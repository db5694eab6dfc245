package reporting

import (
	"math"
	"time"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

// Tier is the expiry classification of a record or group.
type Tier string

const (
	TierNormal   Tier = "normal"
	TierWarning  Tier = "warning"
	TierCritical Tier = "critical"
	TierExpired  Tier = "expired"
	TierNoExpiry Tier = "no_expiry"
)

// Thresholds holds the day limits of the warning and critical tiers.
type Thresholds struct {
	WarningDays  int
	CriticalDays int
}

// DefaultThresholds returns the 30/7 day limits.
func DefaultThresholds() Thresholds {
	return Thresholds{WarningDays: 30, CriticalDays: 7}
}

// Expiry is the result of Classify. DaysRemaining is nil for TierNoExpiry.
type Expiry struct {
	Tier          Tier `json:"tier"`
	DaysRemaining *int `json:"daysRemaining,omitempty"`
}

// Classify maps an optional expiration date to its tier relative to now.
// daysRemaining is rounded up, so anything expiring later today counts as 0.
func Classify(expiration *models.Date, now time.Time, th Thresholds) Expiry {
	if expiration == nil || expiration.IsZero() {
		return Expiry{Tier: TierNoExpiry}
	}

	days := daysUntil(expiration.Time, now)
	out := Expiry{DaysRemaining: &days}

	switch {
	case days < 0:
		out.Tier = TierExpired
	case days <= th.CriticalDays:
		out.Tier = TierCritical
	case days <= th.WarningDays:
		out.Tier = TierWarning
	default:
		out.Tier = TierNormal
	}
	return out
}

func daysUntil(expiration, now time.Time) int {
	ratio := float64(expiration.Sub(now)) / float64(24*time.Hour)
	return int(math.Ceil(ratio))
}
