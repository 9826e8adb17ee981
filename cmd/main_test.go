package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/richard-senior/podds-web/pkg/podds"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "predictions.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join([]string{
		"match_date,match_teams,division,home_win_prob,draw_prob,away_win_prob,over_15_prob,under_15_prob,over_25_prob,under_25_prob",
		"2024-03-15 18:00,Leeds vs Hull,E1,0.55,0.25,0.2,0.7,0.3,0.45,0.55",
		"2024-03-15 20:00,Arsenal vs Chelsea,E0,0.4567,0.3,0.2433,0.8,0.2,0.6,0.4",
		"2024-03-17,Spurs vs Fulham,E0,0.2,0.2,0.6,0.6,0.4,0.5,0.5",
	}, "\n")+"\n"), 0o644))
	return path
}

func TestRunDates(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"dates", "-data", writeDataset(t)}, &out))
	assert.Equal(t, "2024-03-15\n2024-03-17\n", out.String())
}

func TestRunPrint(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"print", "-data", writeDataset(t), "-date", "2024-03-15"}, &out))
	assert.Contains(t, out.String(), "Matches for E0")
	assert.Regexp(t, `(?m)^\|\s*Arsenal vs Chelsea\s*\|\s*45\.67%\s*\|\s*30\.00%\s*\|\s*24\.33%\s*\|\s*Over 1\.5\s*\|\s*Over 2\.5\s*\|\s*Home Win\s*\|\s*$`, out.String())
	assert.Regexp(t, `(?m)^\|\s*Leeds vs Hull\s*\|`, out.String())
	assert.NotContains(t, out.String(), "Spurs vs Fulham")
}

func TestRunImport(t *testing.T) {
	db := filepath.Join(t.TempDir(), "podds.db")
	require.NoError(t, run(context.Background(), []string{"import", "-data", writeDataset(t), "-out", db}, &bytes.Buffer{}))

	table, err := podds.Load(context.Background(), db, podds.LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()
	assert.ErrorContains(t, run(ctx, []string{"frobnicate"}, &bytes.Buffer{}), "unknown command")

	err := run(ctx, []string{"dates", "-data", filepath.Join(t.TempDir(), "missing.csv")}, &bytes.Buffer{})
	var fe *podds.FileError
	assert.ErrorAs(t, err, &fe)

	assert.ErrorContains(t, run(ctx, []string{"dates", "-data", "predictions.json"}, &bytes.Buffer{}), "invalid configuration")
}

func TestRunFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("PODDS_DATA", "stale.json")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"dates", "-data", writeDataset(t)}, &out))
	assert.Equal(t, "2024-03-15\n2024-03-17\n", out.String())

	// without the flag the stale value is still reported
	assert.ErrorContains(t, run(context.Background(), []string{"dates"}, &bytes.Buffer{}), "stale.json")
}
