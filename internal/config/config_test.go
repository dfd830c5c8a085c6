package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		DatabaseURL:   "postgres://localhost:5432/practice",
		ModelArtifact: "ml_artifacts/random_forest_v1.json",
		HTTPAddr:      ":8080",
		Scheduling: Scheduling{
			HourStart:    9,
			HourEnd:      18,
			HorizonWeeks: 2,
			MaxPerDay:    8,
			MaxPerWeek:   40,
		},
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	assert.NoError(t, Validate(validConfig()))
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = ""
	assert.Error(t, Validate(cfg))
}

func TestValidateRequiresModelArtifact(t *testing.T) {
	cfg := validConfig()
	cfg.ModelArtifact = ""
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsInvertedWorkingDay(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduling.HourStart = 18
	cfg.Scheduling.HourEnd = 9
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hourStart")
}

func TestValidateRejectsDegenerateWorkingDay(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduling.HourStart = 9
	cfg.Scheduling.HourEnd = 9
	assert.Error(t, Validate(cfg))
}

func TestValidateRejectsNonPositiveCaps(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduling.MaxPerDay = 0
	assert.Error(t, Validate(cfg))

	cfg = validConfig()
	cfg.Scheduling.MaxPerWeek = 0
	assert.Error(t, Validate(cfg))

	cfg = validConfig()
	cfg.Scheduling.HorizonWeeks = 0
	assert.Error(t, Validate(cfg))
}

func TestValidateClosureRules(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduling.Closures = []string{"FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25"}
	assert.NoError(t, Validate(cfg))

	cfg.Scheduling.Closures = []string{"not an rrule"}
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closures[0]")
}

func TestLoadFromPath(t *testing.T) {
	content := `
databaseURL: postgres://localhost:5432/practice
modelArtifact: ml_artifacts/random_forest_v1.json
httpAddr: ":8080"
scheduling:
  hourStart: 9
  hourEnd: 18
  horizonWeeks: 2
  maxPerDay: 8
  maxPerWeek: 40
  closures:
    - "FREQ=YEARLY;BYMONTH=1;BYMONTHDAY=1"
`
	path := filepath.Join(t.TempDir(), "scheduler_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Scheduling.HourStart)
	assert.Equal(t, 18, cfg.Scheduling.HourEnd)
	assert.Len(t, cfg.Scheduling.Closures, 1)
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromPathInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scheduler_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("databaseURL: [unclosed"), 0644))

	_, err := LoadFromPath(path)
	assert.Error(t, err)
}
