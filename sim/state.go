package sim

// State aggregates everything the simulation persists and transmits: the
// golfer, the season calendar, the turn ledger and the derived season
// records. The engine replaces it wholesale on every accepted turn.
type State struct {
	Golfer *Golfer
	Season *Season
	Ledger []LedgerEntry

	LastTournamentResult *TournamentResult
	SeasonPlayers        []SeasonPlayer
	PlayerStats          *PlayerStats
	SeasonRankings       []RankingRow
	SeasonResults        []TournamentResult
	SeasonSummary        *SeasonSummary

	LastMessage string
}

// Clone deep-copies the state. Turn handlers work on a clone so a failed
// turn never leaves partial mutation behind.
func (s *State) Clone() *State {
	out := &State{
		Golfer:      s.Golfer.Clone(),
		Season:      s.Season.Clone(),
		LastMessage: s.LastMessage,
		// Summary entries are built once and never mutated afterwards, so
		// sharing the pointer is safe.
		SeasonSummary: s.SeasonSummary,
	}

	out.Ledger = make([]LedgerEntry, len(s.Ledger))
	for i, entry := range s.Ledger {
		out.Ledger[i] = entry.clone()
	}

	if s.LastTournamentResult != nil {
		r := s.LastTournamentResult.clone()
		out.LastTournamentResult = &r
	}

	out.SeasonPlayers = make([]SeasonPlayer, len(s.SeasonPlayers))
	copy(out.SeasonPlayers, s.SeasonPlayers)

	if s.PlayerStats != nil {
		stats := *s.PlayerStats
		out.PlayerStats = &stats
	}

	out.SeasonRankings = make([]RankingRow, len(s.SeasonRankings))
	copy(out.SeasonRankings, s.SeasonRankings)

	out.SeasonResults = make([]TournamentResult, len(s.SeasonResults))
	for i, r := range s.SeasonResults {
		out.SeasonResults[i] = r.clone()
	}

	return out
}
