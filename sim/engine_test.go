package sim_test

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tifye/fairway/rules"
	"github.com/tifye/fairway/sim"
	"github.com/tifye/fairway/store"
)

func testRules(t *testing.T) *rules.Rules {
	t.Helper()
	r := &rules.Rules{
		InitialPlayer: rules.PlayerParams{
			Name: "Alex Fairway",
			Age:  21,
			Skills: map[string]int{
				"driving":    52,
				"approach":   50,
				"short_game": 48,
				"putting":    51,
			},
			FatiguePhysical: 10,
			FatigueMental:   10,
			Form:            50,
			Money:           1300,
			Reputation:      0,
			Motivation:      60,
		},
		SeasonLength: 2,
		Tournaments: []rules.TournamentParams{
			{Name: "Season Opener", Week: 1, Difficulty: 0.3, Purse: 5000, EntryFee: 150, ReputationReward: 4},
			{Name: "Closing Classic", Week: 2, Difficulty: 0.4, Purse: 6000, EntryFee: 160, ReputationReward: 5},
		},
		Training: rules.TrainingParams{Cost: 200, SkillGain: 3, PhysicalFatigue: 10, MentalFatigue: 5},
		Rest:     rules.RestParams{PhysicalRecovery: 15, MentalRecovery: 8, FormGain: 7},
		Tournament: rules.TournamentRules{
			PhysicalFatigue:         18,
			MentalFatigue:           9,
			FieldSize:               40,
			CutCount:                16,
			MotivationPer1000:       0.6,
			MotivationLossOnMiss:    6,
			MotivationPerReputation: 0.5,
		},
		AgentChat: rules.AgentChatParams{MotivationBoost: 6, MentalRecovery: 5, MaxMotivationDelta: 15, MaxMentalRecovery: 20},
	}
	require.NoError(t, r.Validate())
	return r
}

func testEngine(t *testing.T, r *rules.Rules) (*sim.Engine, *store.MemStore) {
	t.Helper()
	memStore := store.NewMemStore(r)
	engine, err := sim.NewEngine(log.New(io.Discard), r, memStore, sim.WithSeed(7, 13))
	require.NoError(t, err)
	return engine, memStore
}

func TestTrainAppliesGainAndCost(t *testing.T) {
	engine, memStore := testEngine(t, testRules(t))

	state, err := engine.PerformAction(sim.ActionTrain, sim.Payload{Skill: "driving"})
	require.NoError(t, err)

	assert.Equal(t, 1100, state.Golfer.Money)
	assert.Equal(t, 55, state.Golfer.Skills[sim.SkillDriving])
	assert.Equal(t, 1, state.Season.CurrentWeek)

	require.Len(t, state.Ledger, 1)
	entry := state.Ledger[0]
	assert.Equal(t, -200, entry.MoneyDelta)
	assert.Equal(t, map[sim.SkillName]int{sim.SkillDriving: 3}, entry.SkillChanges)
	assert.Equal(t, 1, memStore.Saves())
}

func TestTrainClampsAtSkillCeiling(t *testing.T) {
	r := testRules(t)
	r.InitialPlayer.Skills["putting"] = 99
	engine, _ := testEngine(t, r)

	state, err := engine.PerformAction(sim.ActionTrain, sim.Payload{Skill: "putting"})
	require.NoError(t, err)

	assert.Equal(t, 100, state.Golfer.Skills[sim.SkillPutting])
	require.Len(t, state.Ledger, 1)
	assert.Equal(t, map[sim.SkillName]int{sim.SkillPutting: 1}, state.Ledger[0].SkillChanges)
}

func TestTrainRejectsBadPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload sim.Payload
	}{
		{name: "missing skill", payload: sim.Payload{}},
		{name: "unknown skill", payload: sim.Payload{Skill: "chipping"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, memStore := testEngine(t, testRules(t))
			before := engine.GetState()

			_, err := engine.PerformAction(sim.ActionTrain, tt.payload)
			assert.ErrorIs(t, err, sim.ErrInvalidPayload)

			after := engine.GetState()
			assert.Same(t, before, after)
			assert.Equal(t, 1300, after.Golfer.Money)
			assert.Empty(t, after.Ledger)
			assert.Equal(t, 0, memStore.Saves())
		})
	}
}

func TestTrainFailsClosedWithoutFunds(t *testing.T) {
	r := testRules(t)
	r.InitialPlayer.Money = 100
	engine, memStore := testEngine(t, r)

	_, err := engine.PerformAction(sim.ActionTrain, sim.Payload{Skill: "driving"})
	assert.ErrorIs(t, err, sim.ErrInsufficientFunds)

	state := engine.GetState()
	assert.Equal(t, 100, state.Golfer.Money)
	assert.Equal(t, 52, state.Golfer.Skills[sim.SkillDriving])
	assert.Empty(t, state.Ledger)
	assert.Equal(t, 0, memStore.Saves())
}

func TestTrainAllowDebtGoesNegative(t *testing.T) {
	r := testRules(t)
	r.InitialPlayer.Money = 100
	r.Training.AllowDebt = true
	engine, _ := testEngine(t, r)

	state, err := engine.PerformAction(sim.ActionTrain, sim.Payload{Skill: "driving"})
	require.NoError(t, err)
	assert.Equal(t, -100, state.Golfer.Money)
}

func TestRestFloorsAndCaps(t *testing.T) {
	r := testRules(t)
	r.InitialPlayer.FatiguePhysical = 5
	r.InitialPlayer.FatigueMental = 3
	r.InitialPlayer.Form = 97
	engine, _ := testEngine(t, r)

	state, err := engine.PerformAction(sim.ActionRest, sim.Payload{})
	require.NoError(t, err)

	assert.Equal(t, 0, state.Golfer.FatiguePhysical)
	assert.Equal(t, 0, state.Golfer.FatigueMental)
	assert.Equal(t, 100, state.Golfer.Form)
	assert.Equal(t, 1, state.Season.CurrentWeek)

	require.Len(t, state.Ledger, 1)
	assert.Equal(t, -5, state.Ledger[0].FatiguePhysicalDelta)
	assert.Equal(t, -3, state.Ledger[0].FatigueMentalDelta)
}

func TestTournamentMoneyIdentity(t *testing.T) {
	engine, _ := testEngine(t, testRules(t))
	before := engine.GetState().Golfer.Money

	state, err := engine.PerformAction(sim.ActionTournament, sim.Payload{})
	require.NoError(t, err)

	result := state.LastTournamentResult
	require.NotNil(t, result)
	assert.Equal(t, 150, result.EntryFee)
	assert.Equal(t, before-result.EntryFee+result.PrizeMoney, state.Golfer.Money)
	assert.Equal(t, result.PrizeMoney-result.EntryFee, result.NetMoney)
	assert.GreaterOrEqual(t, result.ReputationDelta, 0)

	assert.Equal(t, 2, state.Season.CurrentWeek)
	require.Len(t, state.Ledger, 1)
	assert.Equal(t, 1, state.Ledger[0].Week)
	assert.Equal(t, result.NetMoney, state.Ledger[0].MoneyDelta)

	if result.MissedCut {
		assert.Zero(t, result.PrizeMoney)
		assert.Len(t, result.RoundScores, 2)
	} else {
		assert.Len(t, result.RoundScores, 4)
	}

	require.Len(t, state.SeasonResults, 1)
	assert.Equal(t, 1, state.PlayerStats.EventsPlayed)
	assert.NotEmpty(t, state.SeasonRankings)
}

func TestTournamentWithoutEventFails(t *testing.T) {
	r := testRules(t)
	r.Tournaments = r.Tournaments[1:] // week 1 is now empty
	require.NoError(t, r.Validate())
	engine, memStore := testEngine(t, r)

	_, err := engine.PerformAction(sim.ActionTournament, sim.Payload{})
	assert.ErrorIs(t, err, sim.ErrNoTournamentScheduled)

	state := engine.GetState()
	assert.Equal(t, 1, state.Season.CurrentWeek)
	assert.Equal(t, 1300, state.Golfer.Money)
	assert.Empty(t, state.Ledger)
	assert.Equal(t, 0, memStore.Saves())
}

func TestSeasonCompletion(t *testing.T) {
	r := testRules(t)
	r.SeasonLength = 1
	r.Tournaments = r.Tournaments[:1]
	require.NoError(t, r.Validate())
	engine, _ := testEngine(t, r)

	state, err := engine.PerformAction(sim.ActionTournament, sim.Payload{})
	require.NoError(t, err)
	assert.True(t, state.Season.Completed())
	assert.Equal(t, 2, state.Season.CurrentWeek)

	summary := state.SeasonSummary
	require.NotNil(t, summary)
	assert.Greater(t, summary.PlayerRank, 0)
	assert.Len(t, summary.Tournaments, 1)

	for _, kind := range []sim.ActionKind{sim.ActionTrain, sim.ActionRest, sim.ActionTournament} {
		_, err := engine.PerformAction(kind, sim.Payload{Skill: "driving"})
		assert.ErrorIs(t, err, sim.ErrSeasonComplete, kind.String())
	}

	// The agent stays on the payroll after the season wraps.
	after, err := engine.PerformAction(sim.ActionAgentChat, sim.Payload{})
	require.NoError(t, err)
	assert.True(t, after.Season.Completed())
}

func TestAgentChatDefaults(t *testing.T) {
	r := testRules(t)
	r.InitialPlayer.FatigueMental = 30
	engine, _ := testEngine(t, r)

	state, err := engine.PerformAction(sim.ActionAgentChat, sim.Payload{})
	require.NoError(t, err)

	assert.Equal(t, 66, state.Golfer.Motivation)
	assert.Equal(t, 25, state.Golfer.FatigueMental)
	assert.Equal(t, 1, state.Season.CurrentWeek)
	assert.Equal(t, 1300, state.Golfer.Money)

	require.Len(t, state.Ledger, 1)
	assert.Equal(t, 0, state.Ledger[0].MoneyDelta)
}

func TestAgentChatOverrides(t *testing.T) {
	r := testRules(t)
	r.InitialPlayer.FatigueMental = 30
	engine, _ := testEngine(t, r)

	motivation := -10
	recovery := 12
	state, err := engine.PerformAction(sim.ActionAgentChat, sim.Payload{
		MotivationDelta: &motivation,
		MentalRecovery:  &recovery,
	})
	require.NoError(t, err)

	assert.Equal(t, 50, state.Golfer.Motivation)
	assert.Equal(t, 18, state.Golfer.FatigueMental)
}

func TestAgentChatRejectsOutOfRangeOverrides(t *testing.T) {
	tooHigh := 50
	negative := -1
	tests := []struct {
		name    string
		payload sim.Payload
	}{
		{name: "motivation too large", payload: sim.Payload{MotivationDelta: &tooHigh}},
		{name: "recovery too large", payload: sim.Payload{MentalRecovery: &tooHigh}},
		{name: "recovery negative", payload: sim.Payload{MentalRecovery: &negative}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, memStore := testEngine(t, testRules(t))

			_, err := engine.PerformAction(sim.ActionAgentChat, tt.payload)
			assert.ErrorIs(t, err, sim.ErrInvalidPayload)
			assert.Empty(t, engine.GetState().Ledger)
			assert.Equal(t, 0, memStore.Saves())
		})
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	engine, _ := testEngine(t, testRules(t))

	_, err := engine.PerformAction(sim.ActionTrain, sim.Payload{Skill: "approach"})
	require.NoError(t, err)
	_, err = engine.PerformAction(sim.ActionTournament, sim.Payload{})
	require.NoError(t, err)

	state, err := engine.Reset()
	require.NoError(t, err)

	assert.Equal(t, 1300, state.Golfer.Money)
	assert.Equal(t, 1, state.Season.CurrentWeek)
	assert.Equal(t, 50, state.Golfer.Skills[sim.SkillApproach])
	assert.Empty(t, state.Ledger)
	assert.Empty(t, state.SeasonResults)
	assert.Nil(t, state.LastTournamentResult)
}

// TestLedgerReplaysToFinalState plays a whole season and checks that the
// ledger deltas account for every observed stat change.
func TestLedgerReplaysToFinalState(t *testing.T) {
	r := testRules(t)
	r.SeasonLength = 6
	r.Tournaments = []rules.TournamentParams{
		{Name: "Opener", Week: 1, Difficulty: 0.3, Purse: 5000, EntryFee: 150, ReputationReward: 4},
		{Name: "Midpoint", Week: 2, Difficulty: 0.4, Purse: 6000, EntryFee: 160, ReputationReward: 5},
		{Name: "Third", Week: 3, Difficulty: 0.5, Purse: 7000, EntryFee: 170, ReputationReward: 5},
		{Name: "Fourth", Week: 4, Difficulty: 0.4, Purse: 6000, EntryFee: 160, ReputationReward: 4},
		{Name: "Fifth", Week: 5, Difficulty: 0.5, Purse: 8000, EntryFee: 180, ReputationReward: 6},
		{Name: "Finale", Week: 6, Difficulty: 0.6, Purse: 9000, EntryFee: 200, ReputationReward: 7},
	}
	r.Training.AllowDebt = true
	require.NoError(t, r.Validate())
	engine, _ := testEngine(t, r)

	initialMoney := engine.GetState().Golfer.Money
	actions := []struct {
		kind    sim.ActionKind
		payload sim.Payload
	}{
		{sim.ActionTrain, sim.Payload{Skill: "driving"}},
		{sim.ActionTournament, sim.Payload{}},
		{sim.ActionRest, sim.Payload{}},
		{sim.ActionTournament, sim.Payload{}},
		{sim.ActionAgentChat, sim.Payload{}},
		{sim.ActionTournament, sim.Payload{}},
		{sim.ActionTrain, sim.Payload{Skill: "putting"}},
		{sim.ActionTournament, sim.Payload{}},
		{sim.ActionTournament, sim.Payload{}},
		{sim.ActionTournament, sim.Payload{}},
	}

	var state *sim.State
	for _, a := range actions {
		var err error
		state, err = engine.PerformAction(a.kind, a.payload)
		require.NoError(t, err, a.kind.String())

		golfer := state.Golfer
		assert.GreaterOrEqual(t, golfer.FatiguePhysical, 0)
		assert.LessOrEqual(t, golfer.FatiguePhysical, 100)
		assert.GreaterOrEqual(t, golfer.FatigueMental, 0)
		assert.LessOrEqual(t, golfer.FatigueMental, 100)
		assert.GreaterOrEqual(t, golfer.Motivation, 0)
		assert.LessOrEqual(t, golfer.Motivation, 100)
		for skill, level := range golfer.Skills {
			assert.GreaterOrEqual(t, level, 0, skill)
			assert.LessOrEqual(t, level, 100, skill)
		}
	}

	assert.True(t, state.Season.Completed())
	require.Len(t, state.Ledger, len(actions))

	moneyFromLedger := initialMoney
	for _, entry := range state.Ledger {
		moneyFromLedger += entry.MoneyDelta
	}
	assert.Equal(t, state.Golfer.Money, moneyFromLedger)
}

func TestParseActionKind(t *testing.T) {
	for _, name := range []string{"train", "rest", "tournament", "agent_chat"} {
		kind, err := sim.ParseActionKind(name)
		require.NoError(t, err)
		assert.Equal(t, name, kind.String())
	}

	_, err := sim.ParseActionKind("caddy_chat")
	assert.ErrorIs(t, err, sim.ErrInvalidAction)
}
