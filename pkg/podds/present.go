package podds

import (
	"fmt"
	"sort"
	"time"
)

// TableColumns are the headings of every league table, in display order
var TableColumns = []string{"Match", "Home Win", "Draw", "Away Win", "O/U 1.5", "O/U 2.5", "Outcome Prediction"}

// DisplayRow is one formatted line of a league table
type DisplayRow struct {
	Match             string  `json:"match"`
	HomeWin           string  `json:"homeWin"`
	Draw              string  `json:"draw"`
	AwayWin           string  `json:"awayWin"`
	OverUnder15       string  `json:"overUnder15"`
	OverUnder25       string  `json:"overUnder25"`
	OutcomePrediction Outcome `json:"outcomePrediction"`
}

// NewDisplayRow derives the labels and percentages for a single match
func NewDisplayRow(m Match) DisplayRow {
	return DisplayRow{
		Match:             m.Teams,
		HomeWin:           FormatPercentage(m.HomeWinProb),
		Draw:              FormatPercentage(m.DrawProb),
		AwayWin:           FormatPercentage(m.AwayWinProb),
		OverUnder15:       PredictGoals(m.Over15Prob, m.Under15Prob, Over1p5GoalsThreshold),
		OverUnder25:       PredictGoals(m.Over25Prob, m.Under25Prob, Over2p5GoalsThreshold),
		OutcomePrediction: PredictOutcome(m.HomeWinProb, m.DrawProb, m.AwayWinProb),
	}
}

// Cells returns the row values in TableColumns order
func (r DisplayRow) Cells() []string {
	return []string{r.Match, r.HomeWin, r.Draw, r.AwayWin, r.OverUnder15, r.OverUnder25, r.OutcomePrediction.String()}
}

// LeagueTable holds the rows of a single division
type LeagueTable struct {
	Division string       `json:"division"`
	Rows     []DisplayRow `json:"rows"`
}

// Heading is the title shown above the table
func (l LeagueTable) Heading() string {
	return fmt.Sprintf("Matches for %s", l.Division)
}

// GroupByDivision splits matches into one table per division.
// Divisions are sorted by name, rows keep their source order.
func GroupByDivision(matches []Match) []LeagueTable {
	index := make(map[string]int)
	var leagues []LeagueTable
	for _, m := range matches {
		i, ok := index[m.Division]
		if !ok {
			i = len(leagues)
			index[m.Division] = i
			leagues = append(leagues, LeagueTable{Division: m.Division})
		}
		leagues[i].Rows = append(leagues[i].Rows, NewDisplayRow(m))
	}
	sort.SliceStable(leagues, func(a, b int) bool { return leagues[a].Division < leagues[b].Division })
	return leagues
}

// MatchDay is everything a renderer needs for one selected date
type MatchDay struct {
	Date    string        `json:"date"`
	MinDate string        `json:"minDate,omitempty"`
	MaxDate string        `json:"maxDate,omitempty"`
	Leagues []LeagueTable `json:"leagues"`
}

// Count returns the number of matches across all leagues
func (d *MatchDay) Count() int {
	n := 0
	for _, l := range d.Leagues {
		n += len(l.Rows)
	}
	return n
}

// BuildMatchDay filters t to date and groups the result by division.
// dates is the output of ListDistinctDates and only bounds the picker.
func BuildMatchDay(t *Table, dates []time.Time, date time.Time) *MatchDay {
	day := &MatchDay{
		Date:    date.Format(DateLayout),
		Leagues: GroupByDivision(SelectByDate(t, date)),
	}
	if len(dates) > 0 {
		day.MinDate = dates[0].Format(DateLayout)
		day.MaxDate = dates[len(dates)-1].Format(DateLayout)
	}
	if day.Leagues == nil {
		day.Leagues = []LeagueTable{}
	}
	return day
}
