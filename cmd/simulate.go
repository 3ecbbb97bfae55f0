package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tifye/fairway/rules"
	"github.com/tifye/fairway/sim"
	"github.com/tifye/fairway/store"
)

// Guards against rule sets where the calendar leaves the season stuck
// on a week with nothing to play.
const maxTurnsPerWeek = 8

func newSimulateCommand(logger *log.Logger) *cobra.Command {
	var (
		seed1     uint64
		seed2     uint64
		rulesPath string
		times     uint
		debug     bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play full seasons headless and print the final standings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				logger.SetLevel(log.DebugLevel)
			}

			r, err := rules.Load(rulesPath)
			if err != nil {
				return fmt.Errorf("load rules: %s", err)
			}

			runs := max(times, 1)
			for i := range runs {
				s1, s2 := seed1, seed2
				if !cmd.Flags().Changed("seed1") {
					s1 = rand.Uint64()
				}
				if !cmd.Flags().Changed("seed2") {
					s2 = rand.Uint64()
				}

				logger.Info("starting season", "run", i+1, "seed1", s1, "seed2", s2)
				if err := runSeason(cmd.Context(), cmd, logger, r, s1, s2); err != nil {
					return err
				}

				if err := cmd.Context().Err(); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().Uint64Var(&seed1, "seed1", 0, "First seed value")
	cmd.Flags().Uint64Var(&seed2, "seed2", 0, "Second seed value")
	cmd.Flags().StringVar(&rulesPath, "rules", "data/config.json", "Path to the rules file")
	cmd.Flags().UintVar(&times, "times", 1, "Amount of seasons to play")
	cmd.Flags().BoolVar(&debug, "debug", false, "Include debug logs")

	return cmd
}

func runSeason(ctx context.Context, cmd *cobra.Command, logger *log.Logger, r *rules.Rules, seed1, seed2 uint64) error {
	memStore := store.NewMemStore(r)
	engine, err := sim.NewEngine(logger.WithPrefix("sim"), r, memStore, sim.WithSeed(seed1, seed2))
	if err != nil {
		return fmt.Errorf("new engine: %s", err)
	}

	state := engine.GetState()
	maxTurns := state.Season.TotalWeeks * maxTurnsPerWeek
	for turn := 0; !state.Season.Completed() && turn < maxTurns; turn++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		kind, payload := chooseAction(r, state)
		state, err = engine.PerformAction(kind, payload)
		if err != nil {
			if errors.Is(err, sim.ErrNoTournamentScheduled) {
				logger.Warn("season stuck, nothing to play this week",
					"week", engine.GetState().Season.CurrentWeek)
				break
			}
			return fmt.Errorf("perform %s: %s", kind, err)
		}
		logger.Debug(state.LastMessage, "week", state.Season.CurrentWeek, "money", state.Golfer.Money)
	}

	printSeasonReport(cmd, engine.GetState())
	return nil
}

// chooseAction is a deliberately plain policy: recover when worn down,
// talk yourself up when flat, play when an event is on and affordable,
// otherwise sharpen the weakest club.
func chooseAction(r *rules.Rules, state *sim.State) (sim.ActionKind, sim.Payload) {
	golfer := state.Golfer
	if golfer.FatiguePhysical > 55 || golfer.FatigueMental > 55 {
		return sim.ActionRest, sim.Payload{}
	}
	if golfer.Motivation < 35 {
		return sim.ActionAgentChat, sim.Payload{}
	}

	if tournament, ok := state.Season.TournamentAt(state.Season.CurrentWeek); ok {
		if golfer.Money >= tournament.EntryFee {
			return sim.ActionTournament, sim.Payload{}
		}
		// Cannot afford the fee; recover and hope for a cheaper week.
		return sim.ActionRest, sim.Payload{}
	}

	if r.Training.AllowDebt || golfer.Money >= r.Training.Cost {
		return sim.ActionTrain, sim.Payload{Skill: string(golfer.Skills.WeakestSkill())}
	}
	return sim.ActionRest, sim.Payload{}
}

func printSeasonReport(cmd *cobra.Command, state *sim.State) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\nSeason report: %s, age %d\n", state.Golfer.Name, state.Golfer.Age)
	fmt.Fprintf(out, "Money %d, reputation %d, motivation %d\n",
		state.Golfer.Money, state.Golfer.Reputation, state.Golfer.Motivation)

	for _, result := range state.SeasonResults {
		fmt.Fprintf(out, "  W%02d %-28s %-6s net %+d\n",
			result.Week, result.TournamentName, result.Position, result.NetMoney)
	}

	summary := state.SeasonSummary
	if summary == nil {
		fmt.Fprintln(out, "Season did not complete.")
		return
	}

	fmt.Fprintf(out, "Final rank: %d of %d\n", summary.PlayerRank, len(summary.Rankings))
	top := min(5, len(summary.Rankings))
	for _, row := range summary.Rankings[:top] {
		marker := " "
		if row.IsUser {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %3d. %-12s pts %4d earnings %d\n",
			marker, row.Rank, row.Name, row.Points, row.Earnings)
	}
	fmt.Fprintf(out, "Ledger totals: gains %d, expenses %d, net %+d\n",
		summary.Totals.Gains, summary.Totals.Expenses, summary.Totals.Net)
}
