package sim

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	parPerRound    = 72
	roundsPerEvent = 4
)

// playerOutcome is what one played tournament means for the user.
type playerOutcome struct {
	Rank            int
	Position        string
	MissedCut       bool
	Performance     float64
	Prize           int
	ReputationGain  int
	Points          int
	RoundScores     []int
	TotalStrokes    int
	Message         string
	RoundSummary    string
}

type fieldEntry struct {
	playerIdx int // index into st.SeasonPlayers, -1 for the user
	rounds    []int

	firstTwo int
	totalRaw int
	madeCut  bool

	displayRounds []int
	totalPlayed   int
	finalTotal    int
	tieBreak      int

	rank     int
	prize    int
	repGain  int
	points   int
	position string
}

// playTournament simulates the full field: four rounds of stroke play
// with a cut after two. AI season players' stat lines are updated in
// place; the user's outcome is returned for the turn handler to apply.
func (e *Engine) playTournament(st *State, t Tournament) playerOutcome {
	fieldSize := e.rules.Tournament.FieldSize
	cutCount := e.rules.Tournament.CutCount

	aiSlots := min(fieldSize-1, len(st.SeasonPlayers))
	entries := make([]*fieldEntry, 0, aiSlots+1)
	for i := range aiSlots {
		entries = append(entries, &fieldEntry{
			playerIdx: i,
			rounds:    e.aiRounds(&st.SeasonPlayers[i], t),
		})
	}
	user := &fieldEntry{playerIdx: -1, rounds: e.playerRounds(st.Golfer, t)}
	entries = append(entries, user)

	for _, en := range entries {
		en.firstTwo = en.rounds[0] + en.rounds[1]
		for _, score := range en.rounds {
			en.totalRaw += score
		}
	}

	// Cut after two rounds: low scores survive.
	cutOrder := make([]*fieldEntry, len(entries))
	copy(cutOrder, entries)
	sort.SliceStable(cutOrder, func(i, j int) bool {
		a, b := cutOrder[i], cutOrder[j]
		if a.firstTwo != b.firstTwo {
			return a.firstTwo < b.firstTwo
		}
		if a.rounds[1] != b.rounds[1] {
			return a.rounds[1] < b.rounds[1]
		}
		return a.rounds[0] < b.rounds[0]
	})
	for idx, en := range cutOrder {
		en.madeCut = idx < cutCount
	}

	for _, en := range entries {
		if en.madeCut {
			en.displayRounds = en.rounds
			en.totalPlayed = en.totalRaw
			en.finalTotal = en.totalRaw
			en.tieBreak = en.rounds[3]
		} else {
			en.displayRounds = en.rounds[:2]
			en.totalPlayed = en.firstTwo
			// Push missed cuts below every finisher.
			en.finalTotal = en.firstTwo + 400
			en.tieBreak = en.rounds[1]
		}
	}

	finalOrder := make([]*fieldEntry, len(entries))
	copy(finalOrder, entries)
	sort.SliceStable(finalOrder, func(i, j int) bool {
		a, b := finalOrder[i], finalOrder[j]
		if a.finalTotal != b.finalTotal {
			return a.finalTotal < b.finalTotal
		}
		if a.tieBreak != b.tieBreak {
			return a.tieBreak < b.tieBreak
		}
		return a.rounds[0] < b.rounds[0]
	})

	for placement, en := range finalOrder {
		en.rank = placement + 1
		en.prize = prizeForRank(en.rank, t.Purse, cutCount)
		en.repGain = reputationForRank(en.rank, en.madeCut, t.ReputationReward, cutCount)
		en.points = pointsForRank(en.rank, cutCount)
		en.position = positionLabel(en.rank, en.madeCut, cutCount)
	}

	for _, en := range finalOrder {
		if en.playerIdx < 0 {
			continue
		}
		p := &st.SeasonPlayers[en.playerIdx]
		p.EventsPlayed++
		if en.madeCut {
			p.CutsMade++
		}
		if en.rank == 1 {
			p.Wins++
		}
		p.Earnings += en.prize
		p.Points += en.points
		p.LastResult = en.position
	}

	percentile := 1.0
	if len(entries) > 1 {
		percentile = 1.0 - float64(user.rank-1)/float64(len(entries)-1)
	}

	summary := roundSummary(user.displayRounds)
	return playerOutcome{
		Rank:           user.rank,
		Position:       user.position,
		MissedCut:      !user.madeCut,
		Performance:    math.Round(percentile*10000) / 100,
		Prize:          user.prize,
		ReputationGain: user.repGain,
		Points:         user.points,
		RoundScores:    user.displayRounds,
		TotalStrokes:   user.totalPlayed,
		Message:        resultMessage(t.Name, user),
		RoundSummary:   summary,
	}
}

// playerRounds generates the user's scores. The expectation is monotonic
// by construction: more skill, form and motivation always lower it, more
// fatigue always raises it. Fatigue also drifts later rounds upward and
// widens the spread.
func (e *Engine) playerRounds(g *Golfer, t Tournament) []int {
	expectation := playerExpectation(g, t)
	fatigueDrift := float64(g.FatiguePhysical+g.FatigueMental) / 220.0
	std := 1.6 + float64(g.FatigueMental)/220.0

	scores := make([]int, roundsPerEvent)
	for i := range roundsPerEvent {
		mean := expectation + float64(i)*fatigueDrift
		score := int(math.Round(mean + e.rnd.NormFloat64()*std))
		scores[i] = max(60, min(95, score))
	}
	return scores
}

func playerExpectation(g *Golfer, t Tournament) float64 {
	average := g.Skills.Average()
	peak := float64(g.Skills.Peak())
	weakest := float64(g.Skills.Weakest())

	skillAdjust := (average - 50) * 0.07
	specialtyBonus := math.Max(0, peak-average) * 0.03
	weaknessPenalty := math.Max(0, average-weakest) * 0.015
	motivationBonus := (float64(g.Motivation) - 50) * 0.04
	formBonus := (float64(g.Form) - 50) * 0.03
	fatiguePenalty := float64(g.FatiguePhysical)*0.025 + float64(g.FatigueMental)*0.03
	difficultyPenalty := (t.Difficulty - 0.5) * 3.5

	expected := parPerRound + difficultyPenalty + fatiguePenalty + weaknessPenalty -
		skillAdjust - specialtyBonus - motivationBonus - formBonus
	return math.Max(64.0, math.Min(85.0, expected))
}

func (e *Engine) aiRounds(p *SeasonPlayer, t Tournament) []int {
	expected := parPerRound + (t.Difficulty-0.5)*3.0 - (p.BaseSkill-55)*0.08 + e.rnd.NormFloat64()*0.6
	expected = math.Max(65.0, math.Min(88.0, expected))

	drift := 0.2 + t.Difficulty*0.3 + e.rnd.NormFloat64()*0.12
	baseStd := math.Max(1.1, 2.5-p.BaseSkill/35.0)

	scores := make([]int, roundsPerEvent)
	for i := range roundsPerEvent {
		mean := expected + float64(i)*drift
		std := baseStd + float64(i)*0.05
		score := int(math.Round(mean + e.rnd.NormFloat64()*std))
		scores[i] = max(60, min(96, score))
	}
	return scores
}

// prizeForRank maps a finishing position to a purse share. Past the cut
// the share is zero regardless of purse size.
func prizeForRank(rank, purse, cutCount int) int {
	if rank > cutCount {
		return 0
	}
	var share float64
	switch {
	case rank == 1:
		share = 0.18
	case rank == 2:
		share = 0.109
	case rank == 3:
		share = 0.069
	case rank == 4:
		share = 0.049
	case rank == 5:
		share = 0.041
	case rank <= 10:
		share = []float64{0.036, 0.033, 0.031, 0.029, 0.027}[rank-6]
	case rank <= 30:
		share = math.Max(0.015, 0.026-0.0006*float64(rank-10))
	case rank <= cutCount:
		share = math.Max(0.004, 0.014-0.00018*float64(rank-30))
	default:
		share = 0
	}
	return int(float64(purse) * share)
}

func pointsForRank(rank, cutCount int) int {
	if rank > cutCount {
		return 0
	}
	switch {
	case rank == 1:
		return 500
	case rank == 2:
		return 320
	case rank == 3:
		return 230
	case rank == 4:
		return 180
	case rank == 5:
		return 160
	case rank <= 10:
		return 140 - (rank-6)*10
	case rank <= 25:
		return 90 - (rank-11)*4
	case rank <= cutCount:
		return max(5, 34-(rank-26))
	default:
		return 0
	}
}

// reputationForRank is non-negative: a missed cut earns nothing but never
// costs reputation directly.
func reputationForRank(rank int, madeCut bool, baseReward, cutCount int) int {
	if !madeCut || rank > cutCount {
		return 0
	}
	switch {
	case rank == 1:
		return baseReward + 2
	case rank == 2:
		return baseReward + 1
	case rank <= 5:
		return baseReward
	case rank <= 25:
		return max(1, baseReward-1)
	default:
		return max(0, baseReward-2)
	}
}

func positionLabel(rank int, madeCut bool, cutCount int) string {
	switch {
	case rank == 1:
		return "1st"
	case rank == 2:
		return "2nd"
	case rank <= 5:
		return "Top 5"
	case rank <= 25:
		return "Top 25"
	case madeCut:
		return fmt.Sprintf("Top %d", cutCount)
	default:
		return "MC"
	}
}

func resultMessage(tournamentName string, user *fieldEntry) string {
	toPar := relativeScore(user.totalPlayed - parPerRound*roundsPerEvent)
	switch {
	case user.rank == 1:
		return fmt.Sprintf("Won the %s with %d strokes (%s).", tournamentName, user.totalPlayed, toPar)
	case user.rank == 2:
		return fmt.Sprintf("Runner-up at the %s with %d strokes (%s).", tournamentName, user.totalPlayed, toPar)
	case user.rank <= 5:
		return fmt.Sprintf("Top 5 at the %s. Total %d (%s).", tournamentName, user.totalPlayed, toPar)
	case user.rank <= 25:
		return fmt.Sprintf("Strong week at the %s. Total %d (%s).", tournamentName, user.totalPlayed, toPar)
	case user.madeCut:
		return fmt.Sprintf("Rough weekend but made the cut at the %s. Total %d (%s).", tournamentName, user.totalPlayed, toPar)
	default:
		return fmt.Sprintf("Missed the cut at the %s after two rounds (%s).",
			tournamentName, relativeScore(user.totalPlayed-parPerRound*2))
	}
}

func relativeScore(delta int) string {
	if delta == 0 {
		return "E"
	}
	return fmt.Sprintf("%+d", delta)
}

func roundSummary(rounds []int) string {
	segments := make([]string, 0, roundsPerEvent)
	for i := range roundsPerEvent {
		if i < len(rounds) {
			segments = append(segments, fmt.Sprintf("R%d %d (%s)", i+1, rounds[i], relativeScore(rounds[i]-parPerRound)))
		} else {
			segments = append(segments, fmt.Sprintf("R%d --", i+1))
		}
	}
	return "Scores: " + strings.Join(segments, ", ") + "."
}
