// Package cp computes effective stats and combat power under a CP cap.
package cp

import (
	"math"

	"github.com/verte-zerg/pvptrainer/internal/model"
)

// Level bounds.
const (
	MinLevel        = 1.0
	MaxLevel        = 51.0
	DefaultMaxLevel = MaxLevel
	minStamina      = 10
)

// NoCap is the max CP sentinel meaning "use the highest level".
const NoCap = 0

// Result holds the stats at the selected level.
type Result struct {
	Level   float64
	Attack  float64
	Defense float64
	Stamina int
	CP      int
}

// Compute finds the highest level up to maxLevel whose CP does not exceed maxCP
// and returns the stats there. maxCP <= NoCap selects maxLevel directly. When even
// level 1 exceeds the cap, level 1 is used.
func Compute(base model.BaseStats, ivs model.IVs, maxCP int, maxLevel float64) Result {
	top := topIndex(maxLevel)
	if maxCP <= NoCap {
		return statsAt(base, ivs, top)
	}
	best := statsAt(base, ivs, 0)
	for idx := 1; idx <= top; idx++ {
		if r := statsAt(base, ivs, idx); r.CP <= maxCP {
			best = r
		}
	}
	return best
}

// AttackAndCP returns the effective attack and CP under the cap.
func AttackAndCP(base model.BaseStats, ivs model.IVs, maxCP int, maxLevel float64) (float64, int) {
	r := Compute(base, ivs, maxCP, maxLevel)
	return r.Attack, r.CP
}

// CombatPower evaluates the CP formula for effective stats.
func CombatPower(attack, defense float64, stamina int) int {
	return int(math.Floor(attack * math.Sqrt(defense) * math.Sqrt(float64(stamina)) / 10))
}

func statsAt(base model.BaseStats, ivs model.IVs, idx int) Result {
	m := cpMultipliers[idx]
	attack := float64(base.Attack+ivs.Attack) * m
	defense := float64(base.Defense+ivs.Defense) * m
	stamina := int(math.Floor(float64(base.Stamina+ivs.Stamina) * m))
	if stamina < minStamina {
		stamina = minStamina
	}
	return Result{
		Level:   levelForIndex(idx),
		Attack:  attack,
		Defense: defense,
		Stamina: stamina,
		CP:      CombatPower(attack, defense, stamina),
	}
}

// topIndex clamps maxLevel into the table and rounds it down to a half level.
func topIndex(maxLevel float64) int {
	if maxLevel <= 0 || math.IsNaN(maxLevel) {
		maxLevel = DefaultMaxLevel
	}
	if maxLevel > MaxLevel {
		maxLevel = MaxLevel
	}
	if maxLevel < MinLevel {
		maxLevel = MinLevel
	}
	return int(math.Floor((maxLevel - MinLevel) * 2))
}
