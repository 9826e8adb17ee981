// Package podds reads a spreadsheet of pre-computed football match
// probabilities and turns the matches for a single day into per-league
// tables of display rows.
//
// The dataset is loaded once through a Source and is never written to
// afterwards. Every request filters and groups the same immutable Table.
package podds

// Goal lines covered by the dataset's over/under columns
const (
	Over1p5GoalsThreshold = 1.5
	Over2p5GoalsThreshold = 2.5
)

// DateLayout is the calendar date format used for filtering and for the date picker
const DateLayout = "2006-01-02"
