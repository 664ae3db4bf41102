// Package gamification holds the pure numeric rules of the stamp exchange:
// points-to-level and level-to-tier formulas, weekly request allowances and
// the quota calculator. Nothing here touches storage.
package gamification

import (
	"fmt"
	"math"
	"strings"
)

// Points awarded per stamp on each side of an exchange.
const (
	PointsPerRequest      = 1
	PointsPerOfferedStamp = 2
)

// MaxWeeklyRequest is the absolute ceiling on a single request's quantity,
// regardless of tier allowance.
const MaxWeeklyRequest = 40

// TierDefinition is one band of levels with its weekly request allowance.
type TierDefinition struct {
	Tier            int
	Name            string
	MinLevel        int
	MaxLevel        int
	WeeklyAllowance int
}

// Tiers is the fixed tier table, ordered by tier number.
var Tiers = []TierDefinition{
	{Tier: 1, Name: "Iniciante", MinLevel: 1, MaxLevel: 3, WeeklyAllowance: 5},
	{Tier: 2, Name: "Regular", MinLevel: 4, MaxLevel: 7, WeeklyAllowance: 6},
	{Tier: 3, Name: "Experiente", MinLevel: 8, MaxLevel: 12, WeeklyAllowance: 7},
	{Tier: 4, Name: "Avancado", MinLevel: 13, MaxLevel: 20, WeeklyAllowance: 8},
	{Tier: 5, Name: "Mestre", MinLevel: 21, MaxLevel: 999, WeeklyAllowance: 10},
}

// CalculateLevel maps a points total to a level: floor(sqrt(points/25)) + 1.
// Level 1 covers [0,25), level n covers [(n-1)^2*25, n^2*25).
func CalculateLevel(points int) int {
	if points < 0 {
		points = 0
	}
	return int(math.Floor(math.Sqrt(float64(points)/25))) + 1
}

// CalculateTier maps a level to its tier band.
func CalculateTier(level int) int {
	switch {
	case level <= 3:
		return 1
	case level <= 7:
		return 2
	case level <= 12:
		return 3
	case level <= 20:
		return 4
	default:
		return 5
	}
}

// WeeklyAllowanceFromTier returns the weekly stamp-request allowance for a
// tier. Unknown tiers fall back to the tier-1 allowance.
func WeeklyAllowanceFromTier(tier int) int {
	for _, def := range Tiers {
		if def.Tier == tier {
			return def.WeeklyAllowance
		}
	}
	return 5
}

// LevelProgress describes where a points total sits inside its level.
type LevelProgress struct {
	CurrentLevel    int     `json:"currentLevel"`
	NextLevel       int     `json:"nextLevel"`
	PointsNeeded    int     `json:"pointsNeeded"`
	PointsIntoLevel int     `json:"pointsIntoLevel"`
	PointsForLevel  int     `json:"pointsForLevel"`
	ProgressPercent float64 `json:"progressPercent"`
}

// levelThreshold is the points total at which a level begins.
func levelThreshold(level int) int {
	return (level - 1) * (level - 1) * 25
}

// PointsForNextLevel computes progress from the current points total toward
// the next level threshold.
func PointsForNextLevel(points int) LevelProgress {
	currentLevel := CalculateLevel(points)
	nextLevel := currentLevel + 1
	pointsNeeded := levelThreshold(nextLevel)
	pointsIntoLevel := points - levelThreshold(currentLevel)
	pointsForLevel := pointsNeeded - levelThreshold(currentLevel)

	progress := 0.0
	if pointsForLevel > 0 {
		progress = float64(pointsIntoLevel) / float64(pointsForLevel) * 100
	}

	return LevelProgress{
		CurrentLevel:    currentLevel,
		NextLevel:       nextLevel,
		PointsNeeded:    pointsNeeded,
		PointsIntoLevel: pointsIntoLevel,
		PointsForLevel:  pointsForLevel,
		ProgressPercent: progress,
	}
}

// FormatEuros renders a euro amount in Portuguese notation: comma decimal
// separator, two decimal places, trailing euro sign. Zero is "Gratis".
func FormatEuros(value float64) string {
	if value == 0 {
		return "Gratis"
	}
	return strings.Replace(fmt.Sprintf("%.2f", value), ".", ",", 1) + " €"
}
