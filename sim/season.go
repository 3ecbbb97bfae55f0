package sim

// Tournament is one immutable entry in the season calendar. At most one
// tournament is scheduled per week.
type Tournament struct {
	Name             string
	Week             int
	Difficulty       float64
	Purse            int
	EntryFee         int
	ReputationReward int
}

// Season tracks calendar progression. CurrentWeek is 1-based and only
// ever moves forward; TotalWeeks+1 marks a finished season.
type Season struct {
	CurrentWeek int
	TotalWeeks  int
	Tournaments []Tournament
}

func (s *Season) Clone() *Season {
	out := *s
	out.Tournaments = make([]Tournament, len(s.Tournaments))
	copy(out.Tournaments, s.Tournaments)
	return &out
}

// TournamentAt returns the tournament scheduled for the given week, if any.
func (s *Season) TournamentAt(week int) (Tournament, bool) {
	for _, t := range s.Tournaments {
		if t.Week == week {
			return t, true
		}
	}
	return Tournament{}, false
}

// Completed reports whether the season has reached its terminal state.
// Once true, only agent chats and resets are accepted.
func (s *Season) Completed() bool {
	return s.CurrentWeek > s.TotalWeeks
}
