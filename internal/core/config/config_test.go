package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "09:00", cfg.WorkdayStart)
	assert.Equal(t, "18:00", cfg.WorkdayEnd)
	assert.Equal(t, 15, cfg.PlanningDefaultMinutes)
	assert.True(t, cfg.FocusShield)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "09:00", cfg.WorkdayStart)
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
workday_start: "08:30"
workday_end: "17:00"
planning_default_minutes: 30
colors_by_tag:
  urgent: "#dc2626"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, dir)
	require.NoError(t, err)

	assert.Equal(t, "08:30", cfg.WorkdayStart)
	assert.Equal(t, "17:00", cfg.WorkdayEnd)
	assert.Equal(t, 30, cfg.PlanningDefaultMinutes)
	assert.Equal(t, "#dc2626", cfg.ColorsByTag["urgent"])
	// Unset sections fall back to defaults.
	assert.Equal(t, 5000, cfg.Database.BusyTimeout)
}

func validSettings() Settings {
	s := DefaultSettings()
	s.DataDir = "/tmp/timebox"
	return s
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Settings)
		wantField string
		wantMsg   string
	}{
		{"valid", func(s *Settings) {}, "", ""},
		{"empty data dir", func(s *Settings) { s.DataDir = "" }, "data_dir", "cannot be empty"},
		{"bad workday start", func(s *Settings) { s.WorkdayStart = "25:00" }, "workday_start", ""},
		{"bad workday end", func(s *Settings) { s.WorkdayEnd = "oops" }, "workday_end", ""},
		{"inverted window", func(s *Settings) { s.WorkdayStart, s.WorkdayEnd = "18:00", "09:00" }, "workday_start", "must be before"},
		{"planning minutes too small", func(s *Settings) { s.PlanningDefaultMinutes = 2 }, "planning_default_minutes", ""},
		{"planning minutes too large", func(s *Settings) { s.PlanningDefaultMinutes = 600 }, "planning_default_minutes", ""},
		{"negative meeting prep", func(s *Settings) { s.MeetingPrepMinutes = -1 }, "meeting_prep_minutes", "cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var fieldErrs criterio.FieldErrors
			require.ErrorAs(t, err, &fieldErrs)
			require.NotEmpty(t, fieldErrs)
			assert.Contains(t, fieldErrs[0].Field, tt.wantField)
			if tt.wantMsg != "" {
				assert.Contains(t, fieldErrs[0].Err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestValidate_CollectsAllFieldErrors(t *testing.T) {
	s := validSettings()
	s.WorkdayStart = "nope"
	s.MeetingPrepMinutes = -5

	err := s.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Len(t, fieldErrs, 2)

	fields := []string{fieldErrs[0].Field, fieldErrs[1].Field}
	assert.Contains(t, fields, "workday_start")
	assert.Contains(t, fields, "meeting_prep_minutes")
}
