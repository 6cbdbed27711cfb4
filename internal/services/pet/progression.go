package pet

import (
	"math"
	"time"

	"github.com/keepsakehq/keepsake/internal/model"
)

// Experience rewards for direct interactions
const (
	FeedExp = 10
	PlayExp = 15
)

// RequiredExp returns the experience needed to clear the given level. A step
// function of the level, not interpolated.
func RequiredExp(level int) int {
	switch {
	case level <= 10:
		return 100
	case level <= 25:
		return 200
	case level <= 50:
		return 350
	default:
		return 500
	}
}

// tierOf returns the evolution tier for a level. Monotonic non-decreasing.
func tierOf(level int) int {
	switch {
	case level <= 10:
		return 1
	case level <= 25:
		return 2
	case level <= 50:
		return 3
	default:
		return 4
	}
}

// tierRewards returns the accessories unlocked on reaching a tier
func tierRewards(tier int) []string {
	switch tier {
	case 2:
		return []string{"bow", "scarf"}
	case 3:
		return []string{"crown", "glasses"}
	case 4:
		return []string{"wings", "halo"}
	default:
		return nil
	}
}

// progressOutcome reports what an experience grant changed
type progressOutcome struct {
	LeveledUp bool
	Evolved   bool
}

// applyExperience adds experience to the pet, carrying overflow into level
// ups one level at a time. Each iteration strictly reduces the remaining
// experience, so the loop terminates for any amount. Evolution unions the
// tier's reward accessories into the unlocked set; accessories are never
// removed. A small happiness bonus accompanies every grant.
func applyExperience(p *model.Pet, amount int) progressOutcome {
	if amount < 0 {
		amount = 0
	}

	newExp := p.Experience + amount
	newLevel := p.Level

	for newExp >= RequiredExp(newLevel) {
		newExp -= RequiredExp(newLevel)
		newLevel++
	}

	outcome := progressOutcome{LeveledUp: newLevel > p.Level}

	// A single grant can cross several tiers; every tier passed through
	// yields its rewards
	newTier := tierOf(newLevel)
	if newTier > p.Evolution {
		outcome.Evolved = true
		for tier := p.Evolution + 1; tier <= newTier; tier++ {
			for _, reward := range tierRewards(tier) {
				if !p.HasAccessory(reward) {
					p.Accessories = append(p.Accessories, reward)
				}
			}
		}
	}

	p.Experience = newExp
	p.Level = newLevel
	p.Evolution = newTier
	p.Happiness = clamp(p.Happiness + 5)

	return outcome
}

// applyDecay applies offline stat decay since the last visit: hunger drops 2
// points per hour, happiness half that, both floored at 0. The visit marker
// resets to now.
func applyDecay(p *model.Pet, now time.Time) {
	hoursPassed := now.Sub(p.LastVisitAt).Hours()
	if hoursPassed > 0 {
		decay := int(math.Floor(hoursPassed * 2))
		p.Hunger = clamp(p.Hunger - decay)
		p.Happiness = clamp(p.Happiness - int(math.Floor(float64(decay)*0.5)))
	}
	p.LastVisitAt = now
}

// clamp keeps a stat within [0, 100]
func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
