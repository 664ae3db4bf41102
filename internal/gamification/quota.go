package gamification

import "time"

// QuotaProfile is the slice of a profile the quota calculator needs.
type QuotaProfile struct {
	Tier                  int
	WeeklyStampsRequested int
	StampBalance          int
	WeeklyResetAt         time.Time
}

// AvailableRequestQuota computes the remaining weekly request quota for a
// profile at the given instant. If the reset timestamp has passed, the
// counter is treated as zero; the persisted reset happens at
// request-creation time, not here. The result is always in
// [0, WeeklyAllowanceFromTier(tier)].
func AvailableRequestQuota(p QuotaProfile, now time.Time) int {
	effectiveRequested := p.WeeklyStampsRequested
	if now.After(p.WeeklyResetAt) {
		effectiveRequested = 0
	}

	remaining := WeeklyAllowanceFromTier(p.Tier) - effectiveRequested
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}
