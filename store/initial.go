package store

import (
	"math/rand/v2"

	"github.com/tifye/fairway/rules"
	"github.com/tifye/fairway/sim"
)

// Field generation is seeded so a fresh state is the same for everyone
// with the same rules file.
const (
	fieldSeed1 = 1337
	fieldSeed2 = 7
)

// InitialState derives a week-1 state from the rules. This is the only
// place a SimulationState is ever created from scratch.
func InitialState(r *rules.Rules) *sim.State {
	skills := make(sim.SkillSet, len(r.InitialPlayer.Skills))
	for name, level := range r.InitialPlayer.Skills {
		skills[sim.SkillName(name)] = level
	}

	golfer := &sim.Golfer{
		Name:            r.InitialPlayer.Name,
		Age:             r.InitialPlayer.Age,
		Skills:          skills,
		FatiguePhysical: r.InitialPlayer.FatiguePhysical,
		FatigueMental:   r.InitialPlayer.FatigueMental,
		Form:            r.InitialPlayer.Form,
		Money:           r.InitialPlayer.Money,
		Reputation:      r.InitialPlayer.Reputation,
		Motivation:      r.InitialPlayer.Motivation,
	}

	tournaments := make([]sim.Tournament, 0, len(r.Tournaments))
	for _, t := range r.Tournaments {
		tournaments = append(tournaments, sim.Tournament{
			Name:             t.Name,
			Week:             t.Week,
			Difficulty:       t.Difficulty,
			Purse:            t.Purse,
			EntryFee:         t.EntryFee,
			ReputationReward: t.ReputationReward,
		})
	}

	rnd := rand.New(rand.NewPCG(fieldSeed1, fieldSeed2))
	players := sim.GenerateSeasonPlayers(r.Tournament.FieldSize-1, 1, skills.Average(), rnd)

	return &sim.State{
		Golfer: golfer,
		Season: &sim.Season{
			CurrentWeek: 1,
			TotalWeeks:  r.SeasonLength,
			Tournaments: tournaments,
		},
		Ledger:        []sim.LedgerEntry{},
		SeasonPlayers: players,
		PlayerStats:   &sim.PlayerStats{PlayerID: sim.UserPlayerID},
	}
}
