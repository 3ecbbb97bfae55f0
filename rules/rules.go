// Package rules loads the tunable simulation parameters: the starting
// golfer, the season calendar and the numeric knobs behind each action.
// Everything is read-only to the engine; a malformed file fails here,
// before any turn is processed.
package rules

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type Rules struct {
	InitialPlayer PlayerParams       `mapstructure:"initial_player"`
	SeasonLength  int                `mapstructure:"season_length"`
	Tournaments   []TournamentParams `mapstructure:"tournaments"`

	Training   TrainingParams  `mapstructure:"training"`
	Rest       RestParams      `mapstructure:"rest"`
	Tournament TournamentRules `mapstructure:"tournament"`
	AgentChat  AgentChatParams `mapstructure:"agent_chat"`
}

type PlayerParams struct {
	Name            string         `mapstructure:"name"`
	Age             int            `mapstructure:"age"`
	Skills          map[string]int `mapstructure:"skills"`
	FatiguePhysical int            `mapstructure:"fatigue_physical"`
	FatigueMental   int            `mapstructure:"fatigue_mental"`
	Form            int            `mapstructure:"form"`
	Money           int            `mapstructure:"money"`
	Reputation      int            `mapstructure:"reputation"`
	Motivation      int            `mapstructure:"motivation"`
}

type TournamentParams struct {
	Name             string  `mapstructure:"name"`
	Week             int     `mapstructure:"week"`
	Difficulty       float64 `mapstructure:"difficulty"`
	Purse            int     `mapstructure:"purse"`
	EntryFee         int     `mapstructure:"entry_fee"`
	ReputationReward int     `mapstructure:"reputation_reward"`
}

type TrainingParams struct {
	Cost            int  `mapstructure:"cost"`
	SkillGain       int  `mapstructure:"skill_gain"`
	PhysicalFatigue int  `mapstructure:"physical_fatigue"`
	MentalFatigue   int  `mapstructure:"mental_fatigue"`
	// AllowDebt lets a training fee drive money negative. Off by default:
	// training fails closed before any mutation.
	AllowDebt bool `mapstructure:"allow_debt"`
}

type RestParams struct {
	PhysicalRecovery int `mapstructure:"physical_recovery"`
	MentalRecovery   int `mapstructure:"mental_recovery"`
	FormGain         int `mapstructure:"form_gain"`
}

type TournamentRules struct {
	PhysicalFatigue int `mapstructure:"physical_fatigue"`
	MentalFatigue   int `mapstructure:"mental_fatigue"`

	// Field shape: how many entrants tee off and how many survive the cut.
	// Prize money is zero past the cut.
	FieldSize int `mapstructure:"field_size"`
	CutCount  int `mapstructure:"cut_count"`

	MotivationPer1000       float64 `mapstructure:"motivation_per_1000"`
	MotivationLossOnMiss    int     `mapstructure:"motivation_loss_on_miss"`
	MotivationPerReputation float64 `mapstructure:"motivation_per_reputation"`
}

type AgentChatParams struct {
	MotivationBoost int `mapstructure:"motivation_boost"`
	MentalRecovery  int `mapstructure:"mental_recovery"`

	// Bounds on per-call payload overrides.
	MaxMotivationDelta int `mapstructure:"max_motivation_delta"`
	MaxMentalRecovery  int `mapstructure:"max_mental_recovery"`
}

// Load reads and validates a rules file (JSON).
func Load(path string) (*Rules, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var r Rules
	if err := v.Unmarshal(&r); err != nil {
		return nil, fmt.Errorf("unmarshal rules: %w", err)
	}

	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("validate rules %s: %w", path, err)
	}
	return &r, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("training.cost", 200)
	v.SetDefault("training.skill_gain", 3)
	v.SetDefault("training.physical_fatigue", 10)
	v.SetDefault("training.mental_fatigue", 5)

	v.SetDefault("rest.physical_recovery", 15)
	v.SetDefault("rest.mental_recovery", 8)
	v.SetDefault("rest.form_gain", 7)

	v.SetDefault("tournament.physical_fatigue", 18)
	v.SetDefault("tournament.mental_fatigue", 9)
	v.SetDefault("tournament.field_size", 200)
	v.SetDefault("tournament.cut_count", 80)
	v.SetDefault("tournament.motivation_per_1000", 0.6)
	v.SetDefault("tournament.motivation_loss_on_miss", 6)
	v.SetDefault("tournament.motivation_per_reputation", 0.5)

	v.SetDefault("agent_chat.motivation_boost", 6)
	v.SetDefault("agent_chat.mental_recovery", 5)
	v.SetDefault("agent_chat.max_motivation_delta", 15)
	v.SetDefault("agent_chat.max_mental_recovery", 20)
}

// Validate checks structural invariants that the engine relies on.
func (r *Rules) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if r.InitialPlayer.Name == "" {
		fail("initial_player.name is required")
	}
	if r.InitialPlayer.Age <= 0 {
		fail("initial_player.age must be positive")
	}
	if len(r.InitialPlayer.Skills) == 0 {
		fail("initial_player.skills is required")
	}
	for name, level := range r.InitialPlayer.Skills {
		if level < 0 || level > 100 {
			fail("initial_player.skills.%s out of range: %d", name, level)
		}
	}
	for _, stat := range []struct {
		name  string
		value int
	}{
		{"fatigue_physical", r.InitialPlayer.FatiguePhysical},
		{"fatigue_mental", r.InitialPlayer.FatigueMental},
		{"form", r.InitialPlayer.Form},
		{"motivation", r.InitialPlayer.Motivation},
	} {
		if stat.value < 0 || stat.value > 100 {
			fail("initial_player.%s out of range: %d", stat.name, stat.value)
		}
	}

	if r.SeasonLength < 1 {
		fail("season_length must be at least 1, got %d", r.SeasonLength)
	}

	weeks := make(map[int]string, len(r.Tournaments))
	for _, t := range r.Tournaments {
		if t.Name == "" {
			fail("tournament at week %d has no name", t.Week)
		}
		if t.Week < 1 || t.Week > r.SeasonLength {
			fail("tournament %q scheduled outside season: week %d", t.Name, t.Week)
		}
		if other, dup := weeks[t.Week]; dup {
			fail("tournaments %q and %q share week %d", other, t.Name, t.Week)
		}
		weeks[t.Week] = t.Name
		if t.Difficulty < 0 || t.Difficulty > 1 {
			fail("tournament %q difficulty out of [0, 1]: %g", t.Name, t.Difficulty)
		}
		if t.Purse < 0 {
			fail("tournament %q has negative purse", t.Name)
		}
		if t.EntryFee < 0 {
			fail("tournament %q has negative entry fee", t.Name)
		}
	}

	if r.Training.Cost < 0 {
		fail("training.cost must not be negative")
	}
	if r.Training.SkillGain < 0 {
		fail("training.skill_gain must not be negative")
	}
	if r.Training.PhysicalFatigue < 0 || r.Training.MentalFatigue < 0 {
		fail("training fatigue deltas must not be negative")
	}

	if r.Rest.PhysicalRecovery < 0 || r.Rest.MentalRecovery < 0 {
		fail("rest recovery amounts must not be negative")
	}
	if r.Rest.FormGain < 0 {
		fail("rest.form_gain must not be negative")
	}

	if r.Tournament.FieldSize < 2 {
		fail("tournament.field_size must be at least 2, got %d", r.Tournament.FieldSize)
	}
	if r.Tournament.CutCount < 1 || r.Tournament.CutCount >= r.Tournament.FieldSize {
		fail("tournament.cut_count must be in [1, field_size), got %d", r.Tournament.CutCount)
	}
	if r.Tournament.PhysicalFatigue < 0 || r.Tournament.MentalFatigue < 0 {
		fail("tournament fatigue deltas must not be negative")
	}

	if r.AgentChat.MentalRecovery < 0 {
		fail("agent_chat.mental_recovery must not be negative")
	}
	if r.AgentChat.MaxMotivationDelta < 0 {
		fail("agent_chat.max_motivation_delta must not be negative")
	}
	if r.AgentChat.MaxMentalRecovery < r.AgentChat.MentalRecovery {
		fail("agent_chat.max_mental_recovery below the default recovery")
	}

	return errors.Join(errs...)
}
