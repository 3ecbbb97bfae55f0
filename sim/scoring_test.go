package sim

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tifye/fairway/rules"
)

func TestPrizeForRankZeroPastCut(t *testing.T) {
	for _, purse := range []int{5000, 100000, 2500000} {
		for _, rank := range []int{81, 100, 200} {
			assert.Zero(t, prizeForRank(rank, purse, 80), "rank %d purse %d", rank, purse)
		}
	}
}

func TestPrizeForRankSharesDecline(t *testing.T) {
	purse := 100000
	assert.Equal(t, 18000, prizeForRank(1, purse, 80))
	assert.Equal(t, 10900, prizeForRank(2, purse, 80))

	prev := prizeForRank(1, purse, 80)
	for rank := 2; rank <= 80; rank++ {
		prize := prizeForRank(rank, purse, 80)
		assert.LessOrEqual(t, prize, prev, "rank %d", rank)
		assert.Positive(t, prize, "rank %d", rank)
		prev = prize
	}
}

func TestPointsForRank(t *testing.T) {
	assert.Equal(t, 500, pointsForRank(1, 80))
	assert.Equal(t, 320, pointsForRank(2, 80))
	assert.Equal(t, 230, pointsForRank(3, 80))
	assert.Zero(t, pointsForRank(81, 80))

	prev := pointsForRank(1, 80)
	for rank := 2; rank <= 80; rank++ {
		points := pointsForRank(rank, 80)
		assert.LessOrEqual(t, points, prev, "rank %d", rank)
		assert.Positive(t, points, "rank %d", rank)
		prev = points
	}
}

func TestReputationForRankNeverNegative(t *testing.T) {
	for _, baseReward := range []int{0, 1, 5, 10} {
		for rank := 1; rank <= 100; rank++ {
			got := reputationForRank(rank, rank <= 80, baseReward, 80)
			assert.GreaterOrEqual(t, got, 0, "rank %d reward %d", rank, baseReward)
		}
	}
}

func TestPositionLabel(t *testing.T) {
	tests := []struct {
		rank    int
		madeCut bool
		want    string
	}{
		{1, true, "1st"},
		{2, true, "2nd"},
		{4, true, "Top 5"},
		{17, true, "Top 25"},
		{60, true, "Top 80"},
		{101, false, "MC"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, positionLabel(tt.rank, tt.madeCut, 80))
	}
}

func TestPlayerExpectationMonotonic(t *testing.T) {
	base := func() *Golfer {
		return &Golfer{
			Skills:          SkillSet{SkillDriving: 52, SkillApproach: 50, SkillShortGame: 48, SkillPutting: 51},
			FatiguePhysical: 30,
			FatigueMental:   30,
			Form:            50,
			Motivation:      50,
		}
	}
	event := Tournament{Difficulty: 0.5}
	baseline := playerExpectation(base(), event)

	stronger := base()
	for skill := range stronger.Skills {
		stronger.Skills[skill] += 10
	}
	assert.LessOrEqual(t, playerExpectation(stronger, event), baseline, "higher skill must never raise the expected score")

	tired := base()
	tired.FatiguePhysical += 30
	tired.FatigueMental += 30
	assert.GreaterOrEqual(t, playerExpectation(tired, event), baseline, "higher fatigue must never lower the expected score")

	motivated := base()
	motivated.Motivation += 30
	assert.LessOrEqual(t, playerExpectation(motivated, event), baseline)

	inForm := base()
	inForm.Form += 30
	assert.LessOrEqual(t, playerExpectation(inForm, event), baseline)

	harder := Tournament{Difficulty: 0.9}
	assert.GreaterOrEqual(t, playerExpectation(base(), harder), baseline)
}

func TestPlayTournamentFieldShape(t *testing.T) {
	r := &rules.Rules{
		Tournament: rules.TournamentRules{FieldSize: 40, CutCount: 16},
	}
	rnd := rand.New(rand.NewPCG(3, 9))
	e := &Engine{rules: r, rnd: rnd}

	st := &State{
		Golfer: &Golfer{
			Skills:          SkillSet{SkillDriving: 52, SkillApproach: 50, SkillShortGame: 48, SkillPutting: 51},
			FatiguePhysical: 20,
			FatigueMental:   20,
			Form:            50,
			Motivation:      60,
		},
		SeasonPlayers: GenerateSeasonPlayers(39, 1, 50, rnd),
	}
	event := Tournament{Name: "Test Open", Difficulty: 0.4, Purse: 8000, ReputationReward: 5}

	outcome := e.playTournament(st, event)

	require.GreaterOrEqual(t, outcome.Rank, 1)
	require.LessOrEqual(t, outcome.Rank, 40)
	assert.Equal(t, outcome.Rank > 16, outcome.MissedCut)
	if outcome.MissedCut {
		assert.Len(t, outcome.RoundScores, 2)
		assert.Zero(t, outcome.Prize)
	} else {
		assert.Len(t, outcome.RoundScores, 4)
	}
	assert.GreaterOrEqual(t, outcome.Performance, 0.0)
	assert.LessOrEqual(t, outcome.Performance, 100.0)
	assert.NotEmpty(t, outcome.Message)

	// Exactly cutCount entrants keep playing the weekend.
	cuts := 0
	events := 0
	for _, p := range st.SeasonPlayers {
		events += p.EventsPlayed
		cuts += p.CutsMade
	}
	assert.Equal(t, 39, events)
	if outcome.MissedCut {
		assert.Equal(t, 16, cuts)
	} else {
		assert.Equal(t, 15, cuts)
	}
}

func TestRoundSummary(t *testing.T) {
	assert.Equal(t,
		"Scores: R1 70 (-2), R2 72 (E), R3 75 (+3), R4 68 (-4).",
		roundSummary([]int{70, 72, 75, 68}),
	)
	assert.Equal(t,
		"Scores: R1 74 (+2), R2 76 (+4), R3 --, R4 --.",
		roundSummary([]int{74, 76}),
	)
}

func TestRelativeScore(t *testing.T) {
	assert.Equal(t, "E", relativeScore(0))
	assert.Equal(t, "+3", relativeScore(3))
	assert.Equal(t, "-2", relativeScore(-2))
}
