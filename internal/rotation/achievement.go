package rotation

import (
	"math"

	"github.com/Geno-Claw/artifacts-mmo-sub002/internal/gameapi"
)

// AchievementScore is the result of scoring one incomplete achievement
// objective for "easiest to finish" (§4.6, §4.7).
type AchievementScore struct {
	Achievement gameapi.Achievement
	Score       float64 // lower is easier; Inf means unactionable
	Actionable  bool
}

// achievementLevel is how the scorer estimates the "level" term of the
// expected-effort formula for a gathering/crafting/kill target when the
// achievement itself carries no explicit level — callers supply the best
// information they have (e.g. the monster's or resource's level); 1 is a
// safe default for targets the caller can't resolve.
func achievementLevel(lookupLevel func(targetCode string) (int, bool), targetCode string) int {
	if lookupLevel != nil {
		if lvl, ok := lookupLevel(targetCode); ok {
			return lvl
		}
	}
	return 1
}

// expectedPerGather is the assumed yield per gather action when no better
// estimate is available (§4.6 formula denominator).
const expectedPerGather = 1.0

// ScoreAchievement computes the expected-effort score for one achievement
// (§4.7: "expected effort (level x remaining, or sqrt(level) x
// remaining/expectedPerGather for gathers, with drop-rate division for
// drops)"). lookupLevel resolves a target code to its catalog level (a
// monster or resource level); it may be nil to use the default of 1.
func ScoreAchievement(a gameapi.Achievement, lookupLevel func(targetCode string) (int, bool)) AchievementScore {
	if a.Complete() {
		return AchievementScore{Achievement: a, Score: math.Inf(1), Actionable: false}
	}

	remaining := float64(a.Target - a.Current)
	if remaining <= 0 {
		return AchievementScore{Achievement: a, Score: math.Inf(1), Actionable: false}
	}
	level := float64(achievementLevel(lookupLevel, a.TargetCode))

	var score float64
	switch a.ObjectiveType {
	case gameapi.ObjectiveCombatKills, gameapi.ObjectiveCrafting, gameapi.ObjectiveTasks:
		score = level * remaining
	case gameapi.ObjectiveGathering:
		score = math.Sqrt(level) * remaining / expectedPerGather
	case gameapi.ObjectiveCombatDrops:
		rate := float64(a.DropRate)
		if rate <= 0 {
			rate = 1
		}
		score = level * remaining * rate
	default:
		return AchievementScore{Achievement: a, Score: math.Inf(1), Actionable: false}
	}

	return AchievementScore{Achievement: a, Score: score, Actionable: true}
}

// PickEasiestAchievement scores every achievement in candidates and
// returns the actionable one with the lowest (easiest) score (§4.6
// "achievement: scores incomplete account achievements ... picks the
// easiest viable one").
func PickEasiestAchievement(candidates []gameapi.Achievement, lookupLevel func(targetCode string) (int, bool)) (gameapi.Achievement, bool) {
	var best AchievementScore
	found := false
	for _, a := range candidates {
		scored := ScoreAchievement(a, lookupLevel)
		if !scored.Actionable {
			continue
		}
		if !found || scored.Score < best.Score {
			best = scored
			found = true
		}
	}
	if !found {
		return gameapi.Achievement{}, false
	}
	return best.Achievement, true
}
