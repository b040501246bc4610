// Package gamify holds the pure XP, level, prestige, and badge rules
// applied when tasks are completed.
package gamify

import (
	"errors"
	"math"

	"github.com/nhle/momentum/internal/model"
)

// MaxLevel is the highest level a goal can reach before prestige.
const MaxLevel = 10

// ErrNotMaxLevel is returned when prestige is attempted below MaxLevel.
var ErrNotMaxLevel = errors.New("goal is not at max level")

// LevelInfo describes where an XP total sits on the level curve.
type LevelInfo struct {
	Level int `json:"level"`
	// Progress is the XP earned inside the current level.
	Progress int `json:"progress"`
	// Needed is the XP the current level requires; 0 at MaxLevel.
	Needed int `json:"needed"`
}

// levelThreshold is the XP needed to advance from level to level+1.
func levelThreshold(level int) int {
	return int(math.Floor(100 * math.Pow(1.5, float64(level-1)/3)))
}

// CalculateLevel consumes xp against the per-level thresholds.
func CalculateLevel(xp int) LevelInfo {
	if xp < 0 {
		xp = 0
	}
	level := 1
	remaining := xp
	for level < MaxLevel {
		need := levelThreshold(level)
		if remaining < need {
			return LevelInfo{Level: level, Progress: remaining, Needed: need}
		}
		remaining -= need
		level++
	}
	return LevelInfo{Level: MaxLevel, Progress: remaining}
}

// XPForLevel returns the total XP at which level is first reached.
func XPForLevel(level int) int {
	if level > MaxLevel {
		level = MaxLevel
	}
	total := 0
	for l := 1; l < level; l++ {
		total += levelThreshold(l)
	}
	return total
}

// AwardXP adds xp to the goal and re-derives its level.
func AwardXP(goal *model.Goal, xp int) {
	goal.XP += xp
	goal.Level = CalculateLevel(goal.XP).Level
}

// CanPrestige reports whether the goal has reached MaxLevel.
func CanPrestige(goal *model.Goal) bool {
	return goal.Level == MaxLevel
}

// Prestige resets a max-level goal to level 1 and bumps its prestige.
// Below MaxLevel the goal is left unchanged and ErrNotMaxLevel is returned.
func Prestige(goal *model.Goal) error {
	if !CanPrestige(goal) {
		return ErrNotMaxLevel
	}
	goal.XP = 0
	goal.Level = 1
	goal.PrestigeLevel++
	return nil
}
