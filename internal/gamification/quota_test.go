package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAvailableRequestQuotaCountsAgainstAllowance(t *testing.T) {
	now := time.Now()
	p := QuotaProfile{
		Tier:                  1,
		WeeklyStampsRequested: 3,
		WeeklyResetAt:         now.Add(48 * time.Hour),
	}
	require.Equal(t, 2, AvailableRequestQuota(p, now))
}

func TestAvailableRequestQuotaNeverNegative(t *testing.T) {
	now := time.Now()
	p := QuotaProfile{
		Tier:                  1,
		WeeklyStampsRequested: 99,
		WeeklyResetAt:         now.Add(time.Hour),
	}
	require.Equal(t, 0, AvailableRequestQuota(p, now))
}

func TestAvailableRequestQuotaResetInPastRestoresFullAllowance(t *testing.T) {
	now := time.Now()
	for tier := 1; tier <= 5; tier++ {
		p := QuotaProfile{
			Tier:                  tier,
			WeeklyStampsRequested: 37,
			WeeklyResetAt:         now.Add(-time.Minute),
		}
		require.Equal(t, WeeklyAllowanceFromTier(tier), AvailableRequestQuota(p, now))
	}
}

func TestAvailableRequestQuotaStaysWithinAllowance(t *testing.T) {
	now := time.Now()
	for tier := 0; tier <= 6; tier++ {
		for requested := 0; requested <= 50; requested += 5 {
			p := QuotaProfile{
				Tier:                  tier,
				WeeklyStampsRequested: requested,
				WeeklyResetAt:         now.Add(time.Hour),
			}
			got := AvailableRequestQuota(p, now)
			require.GreaterOrEqual(t, got, 0)
			require.LessOrEqual(t, got, WeeklyAllowanceFromTier(tier))
		}
	}
}
