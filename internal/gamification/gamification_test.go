package gamification

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculateLevelBoundaries(t *testing.T) {
	cases := []struct {
		points int
		level  int
	}{
		{0, 1},
		{24, 1},
		{25, 2},
		{99, 2},
		{100, 3},
		{225, 4},
		{400, 5},
		{2500, 11},
		{10000, 21},
	}
	for _, c := range cases {
		require.Equal(t, c.level, CalculateLevel(c.points), "points=%d", c.points)
	}
}

func TestCalculateLevelIsMonotonic(t *testing.T) {
	prev := CalculateLevel(0)
	require.GreaterOrEqual(t, prev, 1)
	for points := 1; points <= 5000; points++ {
		level := CalculateLevel(points)
		require.GreaterOrEqual(t, level, prev, "level dropped at points=%d", points)
		prev = level
	}
}

func TestCalculateLevelNegativePointsClampToLevelOne(t *testing.T) {
	require.Equal(t, 1, CalculateLevel(-10))
}

func TestCalculateTierBoundaries(t *testing.T) {
	cases := []struct {
		level int
		tier  int
	}{
		{1, 1},
		{3, 1},
		{4, 2},
		{7, 2},
		{8, 3},
		{12, 3},
		{13, 4},
		{20, 4},
		{21, 5},
		{100, 5},
	}
	for _, c := range cases {
		require.Equal(t, c.tier, CalculateTier(c.level), "level=%d", c.level)
	}
}

func TestCalculateTierIsMonotonic(t *testing.T) {
	prev := CalculateTier(1)
	for level := 2; level <= 50; level++ {
		tier := CalculateTier(level)
		require.GreaterOrEqual(t, tier, prev, "tier dropped at level=%d", level)
		require.Contains(t, []int{1, 2, 3, 4, 5}, tier)
		prev = tier
	}
}

func TestWeeklyAllowanceFromTier(t *testing.T) {
	require.Equal(t, 5, WeeklyAllowanceFromTier(1))
	require.Equal(t, 6, WeeklyAllowanceFromTier(2))
	require.Equal(t, 7, WeeklyAllowanceFromTier(3))
	require.Equal(t, 8, WeeklyAllowanceFromTier(4))
	require.Equal(t, 10, WeeklyAllowanceFromTier(5))

	// Anything outside the table falls back to the tier-1 allowance.
	require.Equal(t, 5, WeeklyAllowanceFromTier(0))
	require.Equal(t, 5, WeeklyAllowanceFromTier(6))
	require.Equal(t, 5, WeeklyAllowanceFromTier(-3))
}

func TestPointsForNextLevel(t *testing.T) {
	p := PointsForNextLevel(0)
	require.Equal(t, 1, p.CurrentLevel)
	require.Equal(t, 2, p.NextLevel)
	require.Equal(t, 25, p.PointsNeeded)
	require.Equal(t, 0, p.PointsIntoLevel)
	require.Equal(t, 25, p.PointsForLevel)
	require.Equal(t, 0.0, p.ProgressPercent)

	p = PointsForNextLevel(30)
	require.Equal(t, 2, p.CurrentLevel)
	require.Equal(t, 3, p.NextLevel)
	require.Equal(t, 100, p.PointsNeeded)
	require.Equal(t, 5, p.PointsIntoLevel)
	require.Equal(t, 75, p.PointsForLevel)
	require.InDelta(t, 100.0*5/75, p.ProgressPercent, 1e-9)
}

func TestPointsForNextLevelInvariant(t *testing.T) {
	for points := 0; points <= 3000; points++ {
		p := PointsForNextLevel(points)
		require.GreaterOrEqual(t, p.PointsIntoLevel, 0, "points=%d", points)
		require.Less(t, p.PointsIntoLevel, p.PointsForLevel, "points=%d", points)
		require.GreaterOrEqual(t, p.ProgressPercent, 0.0)
		require.Less(t, p.ProgressPercent, 100.0)
	}
}

func TestFormatEuros(t *testing.T) {
	require.Equal(t, "Gratis", FormatEuros(0))
	require.Equal(t, "4,99 €", FormatEuros(4.99))
	require.Equal(t, "1,00 €", FormatEuros(1))
	require.Equal(t, "12,50 €", FormatEuros(12.5))
}
