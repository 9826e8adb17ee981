package podds

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Match is one row of the predictions dataset.
// The column tag names the source column in every supported format,
// dbtype is used when the dataset is copied into SQLite.
type Match struct {
	MatchDate string `json:"matchDate" column:"match_date" dbtype:"TEXT NOT NULL" index:"true"`
	Teams     string `json:"matchTeams" column:"match_teams" dbtype:"TEXT NOT NULL"`
	Division  string `json:"division" column:"division" dbtype:"TEXT NOT NULL" index:"true"`

	// Win/Draw/Loss probabilities (0..1)
	HomeWinProb float64 `json:"homeWinProb" column:"home_win_prob" dbtype:"REAL NOT NULL"`
	DrawProb    float64 `json:"drawProb" column:"draw_prob" dbtype:"REAL NOT NULL"`
	AwayWinProb float64 `json:"awayWinProb" column:"away_win_prob" dbtype:"REAL NOT NULL"`

	// Over/Under goals probabilities (0..1)
	Over15Prob  float64 `json:"over15Prob" column:"over_15_prob" dbtype:"REAL NOT NULL"`
	Under15Prob float64 `json:"under15Prob" column:"under_15_prob" dbtype:"REAL NOT NULL"`
	Over25Prob  float64 `json:"over25Prob" column:"over_25_prob" dbtype:"REAL NOT NULL"`
	Under25Prob float64 `json:"under25Prob" column:"under_25_prob" dbtype:"REAL NOT NULL"`
}

// column describes one tagged field of Match
type column struct {
	Name   string
	DBType string
	Index  bool
	field  int
	kind   reflect.Kind
}

var matchColumns = buildColumns(reflect.TypeOf(Match{}))

func buildColumns(t reflect.Type) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := f.Tag.Get("column")
		if !f.IsExported() || name == "" {
			continue
		}
		cols = append(cols, column{
			Name:   name,
			DBType: f.Tag.Get("dbtype"),
			Index:  f.Tag.Get("index") == "true",
			field:  i,
			kind:   f.Type.Kind(),
		})
	}
	return cols
}

// Columns returns the source column names in declaration order
func Columns() []string {
	names := make([]string, len(matchColumns))
	for i, c := range matchColumns {
		names[i] = c.Name
	}
	return names
}

// set parses raw into the field backing c
func (m *Match) set(c column, raw string) error {
	v := reflect.ValueOf(m).Elem().Field(c.field)
	switch c.kind {
	case reflect.String:
		v.SetString(raw)
	case reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", raw)
		}
		v.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field kind %s", c.kind)
	}
	return nil
}

// values returns the field values in column order, for INSERT statements
func (m *Match) values() []any {
	v := reflect.ValueOf(m).Elem()
	out := make([]any, len(matchColumns))
	for i, c := range matchColumns {
		out[i] = v.Field(c.field).Interface()
	}
	return out
}
