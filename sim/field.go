package sim

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

// UserPlayerID marks the human player in rankings and stats.
const UserPlayerID = "USER"

// SeasonPlayer is a generated tour pro filling out tournament fields.
// They are stat curves, not agents: each carries a single base skill that
// drives their simulated round scores.
type SeasonPlayer struct {
	PlayerID  string
	Name      string
	BaseSkill float64

	Earnings     int
	Points       int
	EventsPlayed int
	CutsMade     int
	Wins         int
	LastResult   string
}

// PlayerStats accumulates the user's season record.
type PlayerStats struct {
	PlayerID     string
	Earnings     int
	Points       int
	EventsPlayed int
	CutsMade     int
	Wins         int
	LastResult   string
}

// RankingRow is one line of the season standings, ordered by points then
// earnings.
type RankingRow struct {
	Rank       int
	PlayerID   string
	Name       string
	Earnings   int
	Points     int
	Events     int
	Cuts       int
	Wins       int
	LastResult string
	IsUser     bool
}

// TournamentResult captures the player's outcome at one event.
type TournamentResult struct {
	Week            int
	TournamentName  string
	Position        string
	MissedCut       bool
	Performance     float64
	EntryFee        int
	PrizeMoney      int
	NetMoney        int
	ReputationDelta int
	MotivationDelta int
	Message         string
	// RoundScores holds the strokes for each round played: two entries
	// after a missed cut, four otherwise.
	RoundScores []int
}

func (r TournamentResult) clone() TournamentResult {
	out := r
	out.RoundScores = make([]int, len(r.RoundScores))
	copy(out.RoundScores, r.RoundScores)
	return out
}

// TournamentRecap is the per-event line of the season summary.
type TournamentRecap struct {
	Week           int
	TournamentName string
	Position       string
	Message        string
	RoundScores    []int
	TotalStrokes   int
	NetMoney       int
	PrizeMoney     int
}

// SeasonSummary is built exactly once, when the season completes.
type SeasonSummary struct {
	Rankings    []RankingRow
	Tournaments []TournamentRecap
	ByAction    map[string]MoneyTotals
	Totals      MoneyTotals
	PlayerRank  int
}

// GenerateSeasonPlayers builds count tour pros whose base skill clusters
// around the user's average, so the field stays competitive whatever the
// configured starting attributes are.
func GenerateSeasonPlayers(count, start int, avgSkill float64, rnd *rand.Rand) []SeasonPlayer {
	players := make([]SeasonPlayer, 0, count)
	for idx := start; idx < start+count; idx++ {
		base := avgSkill + rnd.NormFloat64()*4.0
		base = max(40.0, min(70.0, base))
		players = append(players, SeasonPlayer{
			PlayerID:  fmt.Sprintf("P%03d", idx),
			Name:      fmt.Sprintf("Pro %03d", idx),
			BaseSkill: base,
		})
	}
	return players
}

func buildRankings(st *State) []RankingRow {
	rows := make([]RankingRow, 0, len(st.SeasonPlayers)+1)
	stats := st.PlayerStats
	rows = append(rows, RankingRow{
		PlayerID:   stats.PlayerID,
		Name:       st.Golfer.Name,
		Earnings:   stats.Earnings,
		Points:     stats.Points,
		Events:     stats.EventsPlayed,
		Cuts:       stats.CutsMade,
		Wins:       stats.Wins,
		LastResult: orDash(stats.LastResult),
		IsUser:     true,
	})
	for _, p := range st.SeasonPlayers {
		rows = append(rows, RankingRow{
			PlayerID:   p.PlayerID,
			Name:       p.Name,
			Earnings:   p.Earnings,
			Points:     p.Points,
			Events:     p.EventsPlayed,
			Cuts:       p.CutsMade,
			Wins:       p.Wins,
			LastResult: orDash(p.LastResult),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].Earnings > rows[j].Earnings
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func finalizeSeasonSummary(st *State) {
	if st.SeasonSummary != nil {
		return
	}

	rankings := buildRankings(st)
	st.SeasonRankings = rankings

	results := make([]TournamentResult, len(st.SeasonResults))
	copy(results, st.SeasonResults)
	sort.SliceStable(results, func(i, j int) bool { return results[i].Week < results[j].Week })

	recaps := make([]TournamentRecap, 0, len(results))
	for _, r := range results {
		total := 0
		for _, score := range r.RoundScores {
			total += score
		}
		recaps = append(recaps, TournamentRecap{
			Week:           r.Week,
			TournamentName: r.TournamentName,
			Position:       r.Position,
			Message:        r.Message,
			RoundScores:    r.RoundScores,
			TotalStrokes:   total,
			NetMoney:       r.NetMoney,
			PrizeMoney:     r.PrizeMoney,
		})
	}

	byAction, totals := ledgerTotals(st.Ledger)

	playerRank := 0
	for _, row := range rankings {
		if row.IsUser {
			playerRank = row.Rank
			break
		}
	}

	st.SeasonSummary = &SeasonSummary{
		Rankings:    rankings,
		Tournaments: recaps,
		ByAction:    byAction,
		Totals:      totals,
		PlayerRank:  playerRank,
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
