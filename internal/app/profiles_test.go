package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superstore-bi/superstore-bi/internal/format"
	"github.com/superstore-bi/superstore-bi/internal/insights"
)

func writeProfiles(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadProfilesWithoutFile(t *testing.T) {
	profiles, err := LoadProfiles("")
	require.NoError(t, err)
	assert.Equal(t, insights.DefaultProfiles(), profiles)
}

func TestLoadProfilesOverridesKeepDefaults(t *testing.T) {
	path := writeProfiles(t, `
profiles:
  executive:
    insights:
      high_margin: 22
    ranking:
      top_products: 3
  standard:
    style: full
`)
	profiles, err := LoadProfiles(path)
	require.NoError(t, err)

	exec := profiles[insights.ProfileExecutive]
	assert.Equal(t, 22.0, exec.Insights.HighMargin)
	assert.Equal(t, 10.0, exec.Insights.LowMargin)
	assert.Equal(t, 3, exec.Ranking.TopProducts)
	assert.Equal(t, "profit", exec.Ranking.ProductSort)
	assert.Equal(t, insights.ProfileExecutive, exec.Name)

	std := profiles[insights.ProfileStandard]
	assert.Equal(t, format.StyleFull, std.Style)
	assert.Equal(t, 8, std.Ranking.TopProducts)
	assert.Equal(t, insights.PresetCustom, std.Period)
	assert.Equal(t, insights.PresetYear, exec.Period)
}

func TestLoadProfilesRejectsInvalidFiles(t *testing.T) {
	_, err := LoadProfiles(writeProfiles(t, "profiles:\n  ceo:\n    style: full\n"))
	require.Error(t, err)

	_, err = LoadProfiles(writeProfiles(t, "profiles:\n  executive:\n    ranking:\n      product_sort: margin\n"))
	require.Error(t, err)

	_, err = LoadProfiles(writeProfiles(t, "profiles:\n  standard:\n    period: decade\n"))
	require.Error(t, err)

	_, err = LoadProfiles(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}
