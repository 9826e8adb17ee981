package podds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseMatchDate(t *testing.T) {
	for _, raw := range []string{
		"2024-03-15",
		"2024-03-15 18:00",
		"2024-03-15 18:00:00",
		"2024-03-15T18:00:00",
		"2024-03-15T18:00:00+01:00",
		"15/03/2024",
		" 15/03/2024 19:45 ",
	} {
		got, err := ParseMatchDate(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, day("2024-03-15"), got, raw)
	}

	_, err := ParseMatchDate("next saturday")
	assert.Error(t, err)
}

func TestListDistinctDates(t *testing.T) {
	table := NewTable([]Match{
		{MatchDate: "2024-03-16 15:00", Teams: "A vs B"},
		{MatchDate: "2024-03-15 18:00", Teams: "C vs D"},
		{MatchDate: "2024-03-15 20:00", Teams: "E vs F"},
		{MatchDate: "2024-03-14", Teams: "G vs H"},
	})

	dates, err := ListDistinctDates(table)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{day("2024-03-14"), day("2024-03-15"), day("2024-03-16")}, dates)
}

func TestListDistinctDatesRejectsGarbage(t *testing.T) {
	table := NewTable([]Match{{MatchDate: "soon", Teams: "A vs B"}})
	_, err := ListDistinctDates(table)
	assert.ErrorContains(t, err, "A vs B")
}

func TestSelectByDateUsesPrefix(t *testing.T) {
	table := NewTable([]Match{
		{MatchDate: "2024-03-15 18:00", Teams: "Arsenal vs Chelsea"},
		{MatchDate: "2024-03-15", Teams: "Leeds vs Hull"},
		{MatchDate: "2024-03-16 12:30", Teams: "Spurs vs Fulham"},
		{MatchDate: "15/03/2024", Teams: "Wrexham vs Bolton"},
	})

	got := SelectByDate(table, day("2024-03-15"))
	require.Len(t, got, 2)
	assert.Equal(t, "Arsenal vs Chelsea", got[0].Teams)
	assert.Equal(t, "Leeds vs Hull", got[1].Teams)

	assert.Empty(t, SelectByDate(table, day("2024-03-20")))
}

func TestClampDate(t *testing.T) {
	min, max := day("2024-03-01"), day("2024-03-31")
	assert.Equal(t, min, ClampDate(day("2024-02-01"), min, max))
	assert.Equal(t, max, ClampDate(day("2024-05-01"), min, max))
	assert.Equal(t, day("2024-03-10"), ClampDate(day("2024-03-10"), min, max))
	assert.Equal(t, day("2024-05-01"), ClampDate(day("2024-05-01"), time.Time{}, time.Time{}))
}
