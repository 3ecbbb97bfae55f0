package sim

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/tifye/fairway/assert"
	"github.com/tifye/fairway/rules"
)

// Store is the engine's view of durable state. Save is only ever called
// with a fully-computed new state, never mid-turn.
type Store interface {
	Load() (*State, error)
	Save(*State) error
	Reset() (*State, error)
}

// Engine resolves one action at a time against the current state. It is
// single-threaded by contract: each session owns one engine and finishes
// a turn before starting the next.
type Engine struct {
	logger *log.Logger
	rules  *rules.Rules
	store  Store
	rnd    *rand.Rand

	state *State
}

type EngineOption func(*Engine)

// WithSeed pins the engine's RNG for reproducible seasons.
func WithSeed(seed1, seed2 uint64) EngineOption {
	return func(e *Engine) {
		e.rnd = rand.New(rand.NewPCG(seed1, seed2))
	}
}

func NewEngine(logger *log.Logger, r *rules.Rules, store Store, opts ...EngineOption) (*Engine, error) {
	assert.AssertNotNil(logger)
	assert.AssertNotNil(r)
	assert.AssertNotNil(store)

	e := &Engine{
		logger: logger,
		rules:  r,
		store:  store,
		rnd:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
	for _, opt := range opts {
		opt(e)
	}

	state, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	e.state = state
	e.ensureDerived(e.state)
	return e, nil
}

// GetState returns the current state unchanged; no side effects.
func (e *Engine) GetState() *State {
	return e.state
}

// Reset discards the current state and re-derives the initial one from
// the rules.
func (e *Engine) Reset() (*State, error) {
	state, err := e.store.Reset()
	if err != nil {
		return nil, fmt.Errorf("reset state: %w", err)
	}
	e.ensureDerived(state)
	e.state = state
	e.logger.Info("simulation reset", "week", state.Season.CurrentWeek)
	return state, nil
}

// PerformAction resolves one turn. Either every field is updated, exactly
// one ledger entry appended and the new state persisted, or the call
// fails and the previous state stays current.
func (e *Engine) PerformAction(kind ActionKind, payload Payload) (*State, error) {
	if e.state.Season.Completed() && kind != ActionAgentChat {
		return nil, fmt.Errorf("%w: week %d of %d already played",
			ErrSeasonComplete, e.state.Season.TotalWeeks, e.state.Season.TotalWeeks)
	}

	next := e.state.Clone()

	var err error
	switch kind {
	case ActionTrain:
		err = e.applyTrain(next, payload)
	case ActionRest:
		e.applyRest(next)
	case ActionTournament:
		err = e.applyTournament(next)
	case ActionAgentChat:
		err = e.applyAgentChat(next, payload)
	default:
		err = fmt.Errorf("%w: %d", ErrInvalidAction, int(kind))
	}
	if err != nil {
		return nil, err
	}

	next.SeasonRankings = buildRankings(next)
	if next.Season.Completed() {
		finalizeSeasonSummary(next)
	}

	if err := e.store.Save(next); err != nil {
		return nil, fmt.Errorf("save state: %w", err)
	}
	e.state = next

	e.logger.Debug("turn resolved",
		"action", kind.String(),
		"week", next.Season.CurrentWeek,
		"money", next.Golfer.Money,
	)
	return next, nil
}

func (e *Engine) applyTrain(st *State, p Payload) error {
	if p.Skill == "" {
		return fmt.Errorf("%w: train requires a skill", ErrInvalidPayload)
	}
	skill := SkillName(p.Skill)
	level, known := st.Golfer.Skills[skill]
	if !known {
		return fmt.Errorf("%w: unknown skill %q", ErrInvalidPayload, p.Skill)
	}

	t := e.rules.Training
	if !t.AllowDebt && st.Golfer.Money-t.Cost < 0 {
		return fmt.Errorf("%w: training costs %d, balance is %d",
			ErrInsufficientFunds, t.Cost, st.Golfer.Money)
	}

	newLevel := clampStat(level + t.SkillGain)
	st.Golfer.Skills[skill] = newLevel
	gain := newLevel - level

	prevPhysical := st.Golfer.FatiguePhysical
	prevMental := st.Golfer.FatigueMental
	st.Golfer.FatiguePhysical = clampStat(prevPhysical + t.PhysicalFatigue)
	st.Golfer.FatigueMental = clampStat(prevMental + t.MentalFatigue)
	st.Golfer.Money -= t.Cost
	st.Golfer.Form = clampStat(st.Golfer.Form + 1)

	e.appendLedger(st, LedgerEntry{
		Week:                 st.Season.CurrentWeek,
		Action:               ActionTrain.String(),
		Description:          fmt.Sprintf("Practice session on %s", skill),
		MoneyDelta:           -t.Cost,
		FatiguePhysicalDelta: st.Golfer.FatiguePhysical - prevPhysical,
		FatigueMentalDelta:   st.Golfer.FatigueMental - prevMental,
		SkillChanges:         map[SkillName]int{skill: gain},
	})
	st.LastMessage = fmt.Sprintf(
		"Trained %s: skill +%d, physical fatigue +%d, mental fatigue +%d.",
		skill, gain,
		st.Golfer.FatiguePhysical-prevPhysical,
		st.Golfer.FatigueMental-prevMental,
	)
	return nil
}

func (e *Engine) applyRest(st *State) {
	r := e.rules.Rest

	prevPhysical := st.Golfer.FatiguePhysical
	prevMental := st.Golfer.FatigueMental
	st.Golfer.FatiguePhysical = clampStat(prevPhysical - r.PhysicalRecovery)
	st.Golfer.FatigueMental = clampStat(prevMental - r.MentalRecovery)
	st.Golfer.Form = clampStat(st.Golfer.Form + r.FormGain)

	e.appendLedger(st, LedgerEntry{
		Week:                 st.Season.CurrentWeek,
		Action:               ActionRest.String(),
		Description:          "Recovery week",
		FatiguePhysicalDelta: st.Golfer.FatiguePhysical - prevPhysical,
		FatigueMentalDelta:   st.Golfer.FatigueMental - prevMental,
	})
	st.LastMessage = fmt.Sprintf(
		"Took a recovery week. Physical fatigue %d->%d, mental fatigue %d->%d, form +%d.",
		prevPhysical, st.Golfer.FatiguePhysical,
		prevMental, st.Golfer.FatigueMental,
		r.FormGain,
	)
}

func (e *Engine) applyTournament(st *State) error {
	week := st.Season.CurrentWeek
	tournament, scheduled := st.Season.TournamentAt(week)
	if !scheduled {
		return fmt.Errorf("%w: week %d", ErrNoTournamentScheduled, week)
	}

	tr := e.rules.Tournament

	// The entry fee is owed the moment you tee off, prize or not.
	fee := max(0, tournament.EntryFee)
	st.Golfer.Money -= fee

	outcome := e.playTournament(st, tournament)
	st.Golfer.Money += outcome.Prize
	netMoney := outcome.Prize - fee

	st.Golfer.Reputation = max(0, st.Golfer.Reputation+outcome.ReputationGain)
	st.Golfer.Form = clampStat(st.Golfer.Form + max(outcome.ReputationGain, 0))
	// A played event always costs a little freshness.
	formDrop := min(5, max(0, st.Golfer.Form))
	st.Golfer.Form -= formDrop

	prevPhysical := st.Golfer.FatiguePhysical
	prevMental := st.Golfer.FatigueMental
	st.Golfer.FatiguePhysical = clampStat(prevPhysical + tr.PhysicalFatigue)
	st.Golfer.FatigueMental = clampStat(prevMental + tr.MentalFatigue)

	motivationDelta := e.tournamentMotivation(netMoney, outcome.ReputationGain)
	actualMotivation := adjustMotivation(st.Golfer, motivationDelta)

	message := outcome.Message
	if actualMotivation != 0 {
		message = fmt.Sprintf("%s Motivation %+d.", message, actualMotivation)
	}
	if formDrop > 0 {
		message = fmt.Sprintf("%s Form -%d.", message, formDrop)
	}
	if fee > 0 {
		message = fmt.Sprintf("%s Entry fee %d credits, net %+d credits.", message, fee, netMoney)
	}
	message = fmt.Sprintf("%s Finished: %s. %s", message, outcome.Position, outcome.RoundSummary)

	decay := e.applySkillDecay(st)
	if len(decay) > 0 {
		message = fmt.Sprintf("%s Skills settled after the grind: %s.", message, formatSkillChanges(decay))
	}

	result := TournamentResult{
		Week:            week,
		TournamentName:  tournament.Name,
		Position:        outcome.Position,
		MissedCut:       outcome.MissedCut,
		Performance:     outcome.Performance,
		EntryFee:        fee,
		PrizeMoney:      outcome.Prize,
		NetMoney:        netMoney,
		ReputationDelta: outcome.ReputationGain,
		MotivationDelta: actualMotivation,
		Message:         message,
		RoundScores:     outcome.RoundScores,
	}
	st.LastTournamentResult = &result
	st.SeasonResults = append(st.SeasonResults, result)

	updatePlayerStats(st.PlayerStats, outcome)

	e.advanceWeek(st)

	e.appendLedger(st, LedgerEntry{
		Week:                 week,
		Action:               ActionTournament.String(),
		Description:          message,
		MoneyDelta:           netMoney,
		FatiguePhysicalDelta: st.Golfer.FatiguePhysical - prevPhysical,
		FatigueMentalDelta:   st.Golfer.FatigueMental - prevMental,
		ReputationDelta:      outcome.ReputationGain,
		MotivationDelta:      actualMotivation,
		SkillChanges:         decay,
	})
	st.LastMessage = message
	if st.Season.Completed() {
		st.LastMessage += " That's a wrap on the season!"
	}
	return nil
}

func (e *Engine) applyAgentChat(st *State, p Payload) error {
	ac := e.rules.AgentChat

	motivationDelta := ac.MotivationBoost
	if p.MotivationDelta != nil {
		d := *p.MotivationDelta
		if d < -ac.MaxMotivationDelta || d > ac.MaxMotivationDelta {
			return fmt.Errorf("%w: motivation_delta %d outside [-%d, %d]",
				ErrInvalidPayload, d, ac.MaxMotivationDelta, ac.MaxMotivationDelta)
		}
		motivationDelta = d
	}

	mentalRecovery := ac.MentalRecovery
	if p.MentalRecovery != nil {
		rec := *p.MentalRecovery
		if rec < 0 || rec > ac.MaxMentalRecovery {
			return fmt.Errorf("%w: mental_recovery %d outside [0, %d]",
				ErrInvalidPayload, rec, ac.MaxMentalRecovery)
		}
		mentalRecovery = rec
	}

	actualMotivation := adjustMotivation(st.Golfer, motivationDelta)
	prevMental := st.Golfer.FatigueMental
	st.Golfer.FatigueMental = clampStat(prevMental - mentalRecovery)

	e.appendLedger(st, LedgerEntry{
		Week:               st.Season.CurrentWeek,
		Action:             ActionAgentChat.String(),
		Description:        "Check-in with the agent",
		FatigueMentalDelta: st.Golfer.FatigueMental - prevMental,
		MotivationDelta:    actualMotivation,
	})
	st.LastMessage = fmt.Sprintf(
		"Talked things through with the agent. Motivation %+d, mental fatigue %d->%d.",
		actualMotivation, prevMental, st.Golfer.FatigueMental,
	)
	return nil
}

// advanceWeek moves the calendar forward; only tournaments consume a
// week. Past TotalWeeks the season parks at TotalWeeks+1 for good.
func (e *Engine) advanceWeek(st *State) {
	if st.Season.CurrentWeek >= st.Season.TotalWeeks {
		st.Season.CurrentWeek = st.Season.TotalWeeks + 1
	} else {
		st.Season.CurrentWeek++
	}
}

func (e *Engine) appendLedger(st *State, entry LedgerEntry) {
	st.Ledger = append(st.Ledger, entry)
}

func (e *Engine) tournamentMotivation(netMoney, reputationGain int) int {
	tr := e.rules.Tournament
	if netMoney > 0 {
		fromMoney := int(float64(netMoney) * tr.MotivationPer1000 / 1000)
		fromReputation := int(float64(max(reputationGain, 0)) * tr.MotivationPerReputation)
		return fromMoney + fromReputation
	}
	return -tr.MotivationLossOnMiss
}

// applySkillDecay grinds each skill down 1-3% (minimum one point) after a
// played event.
func (e *Engine) applySkillDecay(st *State) map[SkillName]int {
	changes := make(map[SkillName]int)
	for skill, value := range st.Golfer.Skills {
		if value <= 0 {
			continue
		}
		percent := 1 + e.rnd.IntN(3)
		reduction := max(1, (value*percent+50)/100)
		newValue := max(0, value-reduction)
		st.Golfer.Skills[skill] = newValue
		changes[skill] = newValue - value
	}
	return changes
}

func adjustMotivation(g *Golfer, delta int) int {
	prev := g.Motivation
	g.Motivation = clampStat(prev + delta)
	return g.Motivation - prev
}

func updatePlayerStats(stats *PlayerStats, outcome playerOutcome) {
	stats.EventsPlayed++
	if !outcome.MissedCut {
		stats.CutsMade++
	}
	if outcome.Rank == 1 {
		stats.Wins++
	}
	stats.Earnings += outcome.Prize
	stats.Points += outcome.Points
	stats.LastResult = outcome.Position
}

// ensureDerived tops up state loaded from older snapshots: the generated
// field, the user's stat line and the standings are all derivable.
func (e *Engine) ensureDerived(st *State) {
	target := e.rules.Tournament.FieldSize - 1
	if missing := target - len(st.SeasonPlayers); missing > 0 {
		st.SeasonPlayers = append(st.SeasonPlayers, GenerateSeasonPlayers(
			missing, len(st.SeasonPlayers)+1, st.Golfer.Skills.Average(), e.rnd,
		)...)
	}
	if st.PlayerStats == nil {
		st.PlayerStats = &PlayerStats{PlayerID: UserPlayerID}
	}
	st.SeasonRankings = buildRankings(st)
}

func formatSkillChanges(changes map[SkillName]int) string {
	parts := make([]string, 0, len(changes))
	for _, skill := range KnownSkills() {
		if delta, ok := changes[skill]; ok {
			parts = append(parts, fmt.Sprintf("%s %+d", skill, delta))
		}
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}
