// Package sim holds the career simulation domain: the golfer, the season
// calendar, the turn ledger and the engine that resolves one action at a
// time against them. It is pure logic; persistence and transport live in
// the store and api packages.
package sim

// Bounded counters (fatigue, form, motivation, skills) all live on the
// same 0-100 scale.
const (
	StatFloor   = 0
	StatCeiling = 100
)

type SkillName string

const (
	SkillDriving   SkillName = "driving"
	SkillApproach  SkillName = "approach"
	SkillShortGame SkillName = "short_game"
	SkillPutting   SkillName = "putting"
)

// KnownSkills returns the closed set of trainable skills in calendar
// config order.
func KnownSkills() []SkillName {
	return []SkillName{SkillDriving, SkillApproach, SkillShortGame, SkillPutting}
}

type SkillSet map[SkillName]int

func (s SkillSet) Clone() SkillSet {
	out := make(SkillSet, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Average is the mean skill level, used to seed the strength of the
// generated tournament field.
func (s SkillSet) Average() float64 {
	if len(s) == 0 {
		return 50
	}
	sum := 0
	for _, v := range s {
		sum += v
	}
	return float64(sum) / float64(len(s))
}

func (s SkillSet) Peak() int {
	peak := StatFloor
	for _, v := range s {
		if v > peak {
			peak = v
		}
	}
	return peak
}

func (s SkillSet) Weakest() int {
	low := StatCeiling
	for _, v := range s {
		if v < low {
			low = v
		}
	}
	return low
}

// WeakestSkill names the lowest skill, ties broken by config order.
func (s SkillSet) WeakestSkill() SkillName {
	low := StatCeiling + 1
	name := SkillDriving
	for _, skill := range KnownSkills() {
		if v, ok := s[skill]; ok && v < low {
			low = v
			name = skill
		}
	}
	return name
}

// Golfer is the player the simulation tracks. It is owned exclusively by
// the SimulationState it sits in; only the engine mutates it.
type Golfer struct {
	Name string
	Age  int

	Skills          SkillSet
	FatiguePhysical int
	FatigueMental   int
	Form            int
	Money           int
	Reputation      int
	Motivation      int
}

func (g *Golfer) Clone() *Golfer {
	out := *g
	out.Skills = g.Skills.Clone()
	return &out
}

func clampStat(v int) int {
	return min(StatCeiling, max(StatFloor, v))
}
