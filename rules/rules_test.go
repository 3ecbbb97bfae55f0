package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `{
  "initial_player": {
    "name": "Alex Fairway",
    "age": 21,
    "skills": {"driving": 52, "approach": 50, "short_game": 48, "putting": 51},
    "fatigue_physical": 10,
    "fatigue_mental": 10,
    "form": 50,
    "money": 1300,
    "reputation": 0,
    "motivation": 60
  },
  "season_length": 2,
  "tournaments": [
    {"name": "Season Opener", "week": 1, "difficulty": 0.3, "purse": 5000, "entry_fee": 150, "reputation_reward": 4},
    {"name": "Closing Classic", "week": 2, "difficulty": 0.4, "purse": 6000, "entry_fee": 160, "reputation_reward": 5}
  ],
  "training": {"cost": 200, "skill_gain": 3, "physical_fatigue": 10, "mental_fatigue": 5}
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	r, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "Alex Fairway", r.InitialPlayer.Name)
	assert.Equal(t, 1300, r.InitialPlayer.Money)
	assert.Equal(t, 2, r.SeasonLength)
	require.Len(t, r.Tournaments, 2)
	assert.Equal(t, "Season Opener", r.Tournaments[0].Name)
	assert.Equal(t, 150, r.Tournaments[0].EntryFee)

	assert.Equal(t, 200, r.Training.Cost)
	assert.Equal(t, 3, r.Training.SkillGain)
	assert.False(t, r.Training.AllowDebt)

	// Sections absent from the file pick up defaults.
	assert.Equal(t, 15, r.Rest.PhysicalRecovery)
	assert.Equal(t, 200, r.Tournament.FieldSize)
	assert.Equal(t, 80, r.Tournament.CutCount)
	assert.Equal(t, 6, r.AgentChat.MotivationBoost)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeConfig(t, `{"initial_player": `))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Rules {
		t.Helper()
		r, err := Load(writeConfig(t, validConfig))
		require.NoError(t, err)
		return r
	}

	tests := []struct {
		name    string
		mutate  func(r *Rules)
		wantErr string
	}{
		{
			name:    "duplicate tournament weeks",
			mutate:  func(r *Rules) { r.Tournaments[1].Week = 1 },
			wantErr: "share week",
		},
		{
			name:    "tournament outside season",
			mutate:  func(r *Rules) { r.Tournaments[1].Week = 9 },
			wantErr: "outside season",
		},
		{
			name:    "difficulty out of range",
			mutate:  func(r *Rules) { r.Tournaments[0].Difficulty = 1.2 },
			wantErr: "difficulty",
		},
		{
			name:    "cut not below field size",
			mutate:  func(r *Rules) { r.Tournament.CutCount = r.Tournament.FieldSize },
			wantErr: "cut_count",
		},
		{
			name:    "skill out of range",
			mutate:  func(r *Rules) { r.InitialPlayer.Skills["driving"] = 140 },
			wantErr: "out of range",
		},
		{
			name:    "missing player name",
			mutate:  func(r *Rules) { r.InitialPlayer.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "zero season length",
			mutate:  func(r *Rules) { r.SeasonLength = 0 },
			wantErr: "season_length",
		},
		{
			name:    "negative entry fee",
			mutate:  func(r *Rules) { r.Tournaments[0].EntryFee = -1 },
			wantErr: "entry fee",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid(t)
			tt.mutate(r)
			err := r.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
