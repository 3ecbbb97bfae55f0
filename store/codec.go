// Package store persists SimulationState snapshots. The domain entities
// stay free of serialization concerns; this package owns the JSON shape
// through explicit encode/decode DTOs.
package store

import (
	"github.com/tifye/fairway/sim"
)

type StateDTO struct {
	Golfer               GolferDTO             `json:"golfer"`
	Season               SeasonDTO             `json:"season"`
	Ledger               []LedgerEntryDTO      `json:"ledger"`
	LastTournamentResult *TournamentResultDTO  `json:"last_tournament_result,omitempty"`
	SeasonPlayers        []SeasonPlayerDTO     `json:"season_players"`
	PlayerStats          *PlayerStatsDTO       `json:"player_stats,omitempty"`
	SeasonRankings       []RankingRowDTO       `json:"season_rankings"`
	SeasonResults        []TournamentResultDTO `json:"season_results"`
	SeasonSummary        *SeasonSummaryDTO     `json:"season_summary,omitempty"`
	LastMessage          string                `json:"last_message,omitempty"`
}

type GolferDTO struct {
	Name            string         `json:"name"`
	Age             int            `json:"age"`
	Skills          map[string]int `json:"skills"`
	FatiguePhysical int            `json:"fatigue_physical"`
	FatigueMental   int            `json:"fatigue_mental"`
	Form            int            `json:"form"`
	Money           int            `json:"money"`
	Reputation      int            `json:"reputation"`
	Motivation      int            `json:"motivation"`
}

type SeasonDTO struct {
	CurrentWeek int             `json:"current_week"`
	TotalWeeks  int             `json:"total_weeks"`
	Tournaments []TournamentDTO `json:"tournaments"`
}

type TournamentDTO struct {
	Name             string  `json:"name"`
	Week             int     `json:"week"`
	Difficulty       float64 `json:"difficulty"`
	Purse            int     `json:"purse"`
	EntryFee         int     `json:"entry_fee"`
	ReputationReward int     `json:"reputation_reward"`
}

type LedgerEntryDTO struct {
	Week                 int            `json:"week"`
	Action               string         `json:"action"`
	Description          string         `json:"description"`
	MoneyDelta           int            `json:"money_delta"`
	FatiguePhysicalDelta int            `json:"fatigue_physical_delta"`
	FatigueMentalDelta   int            `json:"fatigue_mental_delta"`
	ReputationDelta      int            `json:"reputation_delta"`
	MotivationDelta      int            `json:"motivation_delta"`
	SkillChanges         map[string]int `json:"skill_changes,omitempty"`
}

type TournamentResultDTO struct {
	Week            int     `json:"week"`
	TournamentName  string  `json:"tournament_name"`
	Position        string  `json:"position"`
	MissedCut       bool    `json:"missed_cut"`
	Performance     float64 `json:"performance"`
	EntryFee        int     `json:"entry_fee"`
	PrizeMoney      int     `json:"prize_money"`
	NetMoney        int     `json:"net_money"`
	ReputationDelta int     `json:"reputation_delta"`
	MotivationDelta int     `json:"motivation_delta"`
	Message         string  `json:"message"`
	RoundScores     []int   `json:"round_scores"`
}

type SeasonPlayerDTO struct {
	PlayerID     string  `json:"player_id"`
	Name         string  `json:"name"`
	BaseSkill    float64 `json:"base_skill"`
	Earnings     int     `json:"earnings"`
	Points       int     `json:"points"`
	EventsPlayed int     `json:"events_played"`
	CutsMade     int     `json:"cuts_made"`
	Wins         int     `json:"wins"`
	LastResult   string  `json:"last_result,omitempty"`
}

type PlayerStatsDTO struct {
	PlayerID     string `json:"player_id"`
	Earnings     int    `json:"earnings"`
	Points       int    `json:"points"`
	EventsPlayed int    `json:"events_played"`
	CutsMade     int    `json:"cuts_made"`
	Wins         int    `json:"wins"`
	LastResult   string `json:"last_result,omitempty"`
}

type RankingRowDTO struct {
	Rank       int    `json:"rank"`
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	Earnings   int    `json:"earnings"`
	Points     int    `json:"points"`
	Events     int    `json:"events"`
	Cuts       int    `json:"cuts"`
	Wins       int    `json:"wins"`
	LastResult string `json:"last_result"`
	IsUser     bool   `json:"is_user"`
}

type TournamentRecapDTO struct {
	Week           int    `json:"week"`
	TournamentName string `json:"tournament_name"`
	Position       string `json:"position"`
	Message        string `json:"message"`
	RoundScores    []int  `json:"round_scores"`
	TotalStrokes   int    `json:"total_strokes"`
	NetMoney       int    `json:"net_money"`
	PrizeMoney     int    `json:"prize_money"`
}

type MoneyTotalsDTO struct {
	Gains    int `json:"gains"`
	Expenses int `json:"expenses"`
	Net      int `json:"net"`
}

type SeasonSummaryDTO struct {
	Rankings    []RankingRowDTO           `json:"rankings"`
	Tournaments []TournamentRecapDTO      `json:"tournaments"`
	ByAction    map[string]MoneyTotalsDTO `json:"ledger_totals"`
	Totals      MoneyTotalsDTO            `json:"totals"`
	PlayerRank  int                       `json:"player_rank"`
}

// ToDTO converts domain state to its wire/disk representation.
func ToDTO(st *sim.State) StateDTO {
	dto := StateDTO{
		Golfer: GolferDTO{
			Name:            st.Golfer.Name,
			Age:             st.Golfer.Age,
			Skills:          skillsOut(st.Golfer.Skills),
			FatiguePhysical: st.Golfer.FatiguePhysical,
			FatigueMental:   st.Golfer.FatigueMental,
			Form:            st.Golfer.Form,
			Money:           st.Golfer.Money,
			Reputation:      st.Golfer.Reputation,
			Motivation:      st.Golfer.Motivation,
		},
		Season: SeasonDTO{
			CurrentWeek: st.Season.CurrentWeek,
			TotalWeeks:  st.Season.TotalWeeks,
			Tournaments: make([]TournamentDTO, 0, len(st.Season.Tournaments)),
		},
		Ledger:         make([]LedgerEntryDTO, 0, len(st.Ledger)),
		SeasonPlayers:  make([]SeasonPlayerDTO, 0, len(st.SeasonPlayers)),
		SeasonRankings: make([]RankingRowDTO, 0, len(st.SeasonRankings)),
		SeasonResults:  make([]TournamentResultDTO, 0, len(st.SeasonResults)),
		LastMessage:    st.LastMessage,
	}

	for _, t := range st.Season.Tournaments {
		dto.Season.Tournaments = append(dto.Season.Tournaments, tournamentOut(t))
	}
	for _, entry := range st.Ledger {
		dto.Ledger = append(dto.Ledger, ledgerEntryOut(entry))
	}
	if st.LastTournamentResult != nil {
		r := resultOut(*st.LastTournamentResult)
		dto.LastTournamentResult = &r
	}
	for _, p := range st.SeasonPlayers {
		dto.SeasonPlayers = append(dto.SeasonPlayers, SeasonPlayerDTO(p))
	}
	if st.PlayerStats != nil {
		stats := PlayerStatsDTO(*st.PlayerStats)
		dto.PlayerStats = &stats
	}
	for _, row := range st.SeasonRankings {
		dto.SeasonRankings = append(dto.SeasonRankings, RankingRowDTO(row))
	}
	for _, r := range st.SeasonResults {
		dto.SeasonResults = append(dto.SeasonResults, resultOut(r))
	}
	if st.SeasonSummary != nil {
		dto.SeasonSummary = summaryOut(st.SeasonSummary)
	}
	return dto
}

// FromDTO converts a decoded snapshot back into domain state.
func FromDTO(dto StateDTO) *sim.State {
	st := &sim.State{
		Golfer: &sim.Golfer{
			Name:            dto.Golfer.Name,
			Age:             dto.Golfer.Age,
			Skills:          skillsIn(dto.Golfer.Skills),
			FatiguePhysical: dto.Golfer.FatiguePhysical,
			FatigueMental:   dto.Golfer.FatigueMental,
			Form:            dto.Golfer.Form,
			Money:           dto.Golfer.Money,
			Reputation:      dto.Golfer.Reputation,
			Motivation:      dto.Golfer.Motivation,
		},
		Season: &sim.Season{
			CurrentWeek: dto.Season.CurrentWeek,
			TotalWeeks:  dto.Season.TotalWeeks,
			Tournaments: make([]sim.Tournament, 0, len(dto.Season.Tournaments)),
		},
		Ledger:         make([]sim.LedgerEntry, 0, len(dto.Ledger)),
		SeasonPlayers:  make([]sim.SeasonPlayer, 0, len(dto.SeasonPlayers)),
		SeasonRankings: make([]sim.RankingRow, 0, len(dto.SeasonRankings)),
		SeasonResults:  make([]sim.TournamentResult, 0, len(dto.SeasonResults)),
		LastMessage:    dto.LastMessage,
	}

	for _, t := range dto.Season.Tournaments {
		st.Season.Tournaments = append(st.Season.Tournaments, tournamentIn(t))
	}
	for _, entry := range dto.Ledger {
		st.Ledger = append(st.Ledger, ledgerEntryIn(entry))
	}
	if dto.LastTournamentResult != nil {
		r := resultIn(*dto.LastTournamentResult)
		st.LastTournamentResult = &r
	}
	for _, p := range dto.SeasonPlayers {
		st.SeasonPlayers = append(st.SeasonPlayers, sim.SeasonPlayer(p))
	}
	if dto.PlayerStats != nil {
		stats := sim.PlayerStats(*dto.PlayerStats)
		st.PlayerStats = &stats
	}
	for _, row := range dto.SeasonRankings {
		st.SeasonRankings = append(st.SeasonRankings, sim.RankingRow(row))
	}
	for _, r := range dto.SeasonResults {
		st.SeasonResults = append(st.SeasonResults, resultIn(r))
	}
	if dto.SeasonSummary != nil {
		st.SeasonSummary = summaryIn(dto.SeasonSummary)
	}
	return st
}

func skillsOut(skills sim.SkillSet) map[string]int {
	out := make(map[string]int, len(skills))
	for name, level := range skills {
		out[string(name)] = level
	}
	return out
}

func skillsIn(skills map[string]int) sim.SkillSet {
	out := make(sim.SkillSet, len(skills))
	for name, level := range skills {
		out[sim.SkillName(name)] = level
	}
	return out
}

func tournamentOut(t sim.Tournament) TournamentDTO {
	return TournamentDTO(t)
}

func tournamentIn(t TournamentDTO) sim.Tournament {
	return sim.Tournament(t)
}

func ledgerEntryOut(entry sim.LedgerEntry) LedgerEntryDTO {
	dto := LedgerEntryDTO{
		Week:                 entry.Week,
		Action:               entry.Action,
		Description:          entry.Description,
		MoneyDelta:           entry.MoneyDelta,
		FatiguePhysicalDelta: entry.FatiguePhysicalDelta,
		FatigueMentalDelta:   entry.FatigueMentalDelta,
		ReputationDelta:      entry.ReputationDelta,
		MotivationDelta:      entry.MotivationDelta,
	}
	if len(entry.SkillChanges) > 0 {
		dto.SkillChanges = make(map[string]int, len(entry.SkillChanges))
		for skill, delta := range entry.SkillChanges {
			dto.SkillChanges[string(skill)] = delta
		}
	}
	return dto
}

func ledgerEntryIn(dto LedgerEntryDTO) sim.LedgerEntry {
	entry := sim.LedgerEntry{
		Week:                 dto.Week,
		Action:               dto.Action,
		Description:          dto.Description,
		MoneyDelta:           dto.MoneyDelta,
		FatiguePhysicalDelta: dto.FatiguePhysicalDelta,
		FatigueMentalDelta:   dto.FatigueMentalDelta,
		ReputationDelta:      dto.ReputationDelta,
		MotivationDelta:      dto.MotivationDelta,
	}
	if len(dto.SkillChanges) > 0 {
		entry.SkillChanges = make(map[sim.SkillName]int, len(dto.SkillChanges))
		for skill, delta := range dto.SkillChanges {
			entry.SkillChanges[sim.SkillName(skill)] = delta
		}
	}
	return entry
}

func resultOut(r sim.TournamentResult) TournamentResultDTO {
	return TournamentResultDTO(r)
}

func resultIn(dto TournamentResultDTO) sim.TournamentResult {
	return sim.TournamentResult(dto)
}

func summaryOut(s *sim.SeasonSummary) *SeasonSummaryDTO {
	dto := &SeasonSummaryDTO{
		Rankings:    make([]RankingRowDTO, 0, len(s.Rankings)),
		Tournaments: make([]TournamentRecapDTO, 0, len(s.Tournaments)),
		ByAction:    make(map[string]MoneyTotalsDTO, len(s.ByAction)),
		Totals:      MoneyTotalsDTO(s.Totals),
		PlayerRank:  s.PlayerRank,
	}
	for _, row := range s.Rankings {
		dto.Rankings = append(dto.Rankings, RankingRowDTO(row))
	}
	for _, recap := range s.Tournaments {
		dto.Tournaments = append(dto.Tournaments, TournamentRecapDTO(recap))
	}
	for action, totals := range s.ByAction {
		dto.ByAction[action] = MoneyTotalsDTO(totals)
	}
	return dto
}

func summaryIn(dto *SeasonSummaryDTO) *sim.SeasonSummary {
	s := &sim.SeasonSummary{
		Rankings:    make([]sim.RankingRow, 0, len(dto.Rankings)),
		Tournaments: make([]sim.TournamentRecap, 0, len(dto.Tournaments)),
		ByAction:    make(map[string]sim.MoneyTotals, len(dto.ByAction)),
		Totals:      sim.MoneyTotals(dto.Totals),
		PlayerRank:  dto.PlayerRank,
	}
	for _, row := range dto.Rankings {
		s.Rankings = append(s.Rankings, sim.RankingRow(row))
	}
	for _, recap := range dto.Tournaments {
		s.Tournaments = append(s.Tournaments, sim.TournamentRecap(recap))
	}
	for action, totals := range dto.ByAction {
		s.ByAction[action] = sim.MoneyTotals(totals)
	}
	return s
}
