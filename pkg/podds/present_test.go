package podds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMatches() []Match {
	return []Match{
		{MatchDate: "2024-03-15 18:00", Teams: "Leeds vs Hull", Division: "E1",
			HomeWinProb: 0.55, DrawProb: 0.25, AwayWinProb: 0.20,
			Over15Prob: 0.7, Under15Prob: 0.3, Over25Prob: 0.45, Under25Prob: 0.55},
		{MatchDate: "2024-03-15 20:00", Teams: "Arsenal vs Chelsea", Division: "E0",
			HomeWinProb: 0.4567, DrawProb: 0.30, AwayWinProb: 0.2433,
			Over15Prob: 0.8, Under15Prob: 0.2, Over25Prob: 0.6, Under25Prob: 0.4},
		{MatchDate: "2024-03-15 15:00", Teams: "Stoke vs Millwall", Division: "E1",
			HomeWinProb: 0.3, DrawProb: 0.4, AwayWinProb: 0.3,
			Over15Prob: 0.5, Under15Prob: 0.5, Over25Prob: 0.3, Under25Prob: 0.7},
		{MatchDate: "2024-03-16", Teams: "Spurs vs Fulham", Division: "E0",
			HomeWinProb: 0.2, DrawProb: 0.2, AwayWinProb: 0.6,
			Over15Prob: 0.6, Under15Prob: 0.4, Over25Prob: 0.5, Under25Prob: 0.5},
	}
}

func TestNewDisplayRow(t *testing.T) {
	row := NewDisplayRow(sampleMatches()[1])
	assert.Equal(t, DisplayRow{
		Match:             "Arsenal vs Chelsea",
		HomeWin:           "45.67%",
		Draw:              "30.00%",
		AwayWin:           "24.33%",
		OverUnder15:       "Over 1.5",
		OverUnder25:       "Over 2.5",
		OutcomePrediction: HomeWin,
	}, row)
	assert.Len(t, row.Cells(), len(TableColumns))
	assert.Equal(t, "Home Win", row.Cells()[6])
}

func TestGroupByDivision(t *testing.T) {
	matches := SelectByDate(NewTable(sampleMatches()), day("2024-03-15"))
	leagues := GroupByDivision(matches)

	require.Len(t, leagues, 2)
	assert.Equal(t, "E0", leagues[0].Division)
	assert.Equal(t, "E1", leagues[1].Division)
	assert.Equal(t, "Matches for E1", leagues[1].Heading())

	// every filtered match appears exactly once, in its own division
	seen := map[string]int{}
	for _, l := range leagues {
		for _, r := range l.Rows {
			seen[r.Match]++
		}
	}
	assert.Equal(t, map[string]int{"Arsenal vs Chelsea": 1, "Leeds vs Hull": 1, "Stoke vs Millwall": 1}, seen)

	// source order inside a division
	assert.Equal(t, "Leeds vs Hull", leagues[1].Rows[0].Match)
	assert.Equal(t, "Stoke vs Millwall", leagues[1].Rows[1].Match)
	assert.Equal(t, Draw, leagues[1].Rows[1].OutcomePrediction)
	assert.Equal(t, "Under 1.5", leagues[1].Rows[1].OverUnder15)
}

func TestBuildMatchDay(t *testing.T) {
	table := NewTable(sampleMatches())
	dates, err := ListDistinctDates(table)
	require.NoError(t, err)

	d := BuildMatchDay(table, dates, day("2024-03-16"))
	assert.Equal(t, "2024-03-16", d.Date)
	assert.Equal(t, "2024-03-15", d.MinDate)
	assert.Equal(t, "2024-03-16", d.MaxDate)
	assert.Equal(t, 1, d.Count())
	assert.Equal(t, AwayWin, d.Leagues[0].Rows[0].OutcomePrediction)

	empty := BuildMatchDay(table, dates, day("2024-04-01"))
	assert.NotNil(t, empty.Leagues)
	assert.Empty(t, empty.Leagues)
	assert.Zero(t, empty.Count())
}
