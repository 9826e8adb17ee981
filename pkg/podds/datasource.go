package podds

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/richard-senior/podds-web/internal/logger"
)

// LoadOptions tunes how a dataset location is read
type LoadOptions struct {
	Sheet     string // xlsx worksheet, first sheet when empty
	TableName string // sql table, DefaultTableName when empty
}

// DefaultTableName is the table read from (and written to) SQL sources
const DefaultTableName = "predictions"

// Table is the loaded dataset. It is immutable once built.
type Table struct {
	matches []Match
}

// NewTable copies matches into a Table
func NewTable(matches []Match) *Table {
	m := make([]Match, len(matches))
	copy(m, matches)
	return &Table{matches: m}
}

// Len returns the number of matches in the table
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.matches)
}

// Matches returns a copy of every match in source order
func (t *Table) Matches() []Match {
	if t == nil {
		return nil
	}
	m := make([]Match, len(t.matches))
	copy(m, t.matches)
	return m
}

/////////////////////////////////////////////////////////////////////////
////// Source
/////////////////////////////////////////////////////////////////////////

// Source loads a dataset at most once and hands out the same Table
// (or the same error) on every call
type Source struct {
	Location string
	Options  LoadOptions

	once  sync.Once
	table *Table
	err   error
}

func NewSource(location string, opts LoadOptions) *Source {
	return &Source{Location: location, Options: opts}
}

// Table loads the dataset on the first call
func (s *Source) Table(ctx context.Context) (*Table, error) {
	s.once.Do(func() {
		start := time.Now()
		s.table, s.err = Load(ctx, s.Location, s.Options)
		if s.err != nil {
			return
		}
		logger.Info("Loaded dataset", redact(s.Location), "matches:", s.table.Len(), "in", time.Since(start).String())
	})
	return s.table, s.err
}

// Load reads the dataset at location. The format follows the file
// extension (.csv, .xlsx, .db) or a postgres:// DSN.
func Load(ctx context.Context, location string, opts LoadOptions) (*Table, error) {
	if strings.TrimSpace(location) == "" {
		return nil, fileError(location, fmt.Errorf("no dataset location configured"))
	}
	if opts.TableName == "" {
		opts.TableName = DefaultTableName
	}

	var (
		matches []Match
		err     error
	)
	switch kind := sourceKind(location); kind {
	case "csv":
		matches, err = loadCSV(location)
	case "xlsx":
		matches, err = loadXLSX(location, opts.Sheet)
	case "sqlite":
		matches, err = loadSQLite(ctx, location, opts.TableName)
	case "postgres":
		matches, err = loadPostgres(ctx, location, opts.TableName)
	default:
		return nil, fileError(location, fmt.Errorf("unsupported dataset format %q", filepath.Ext(location)))
	}
	if err != nil {
		return nil, err
	}
	return &Table{matches: matches}, nil
}

func sourceKind(location string) string {
	if isPostgresDSN(location) {
		return "postgres"
	}
	switch strings.ToLower(filepath.Ext(location)) {
	case ".csv":
		return "csv"
	case ".xlsx", ".xlsm":
		return "xlsx"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	default:
		return ""
	}
}

func isPostgresDSN(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "postgres://") || strings.HasPrefix(l, "postgresql://")
}

/////////////////////////////////////////////////////////////////////////
////// Row parsing shared by the tabular formats
/////////////////////////////////////////////////////////////////////////

// headerIndex maps every Match column onto its position in header
func headerIndex(path string, header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		name := strings.ToLower(strings.TrimSpace(h))
		if _, dup := positions[name]; !dup && name != "" {
			positions[name] = i
		}
	}

	var missing []string
	for _, c := range matchColumns {
		if _, ok := positions[c.Name]; !ok {
			missing = append(missing, c.Name)
		}
	}
	if len(missing) > 0 {
		return nil, &FileError{Path: path, Row: 1, Err: fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))}
	}
	return positions, nil
}

// parseRows turns a header row plus data rows into matches.
// Entirely blank rows are skipped, any other bad cell fails the load.
func parseRows(path string, rows [][]string) ([]Match, error) {
	if len(rows) == 0 {
		return nil, fileError(path, fmt.Errorf("no header row"))
	}
	positions, err := headerIndex(path, rows[0])
	if err != nil {
		return nil, err
	}

	matches := make([]Match, 0, len(rows)-1)
	for i, record := range rows[1:] {
		if isBlankRow(record) {
			continue
		}
		var m Match
		for _, c := range matchColumns {
			raw := ""
			if p := positions[c.Name]; p < len(record) {
				raw = strings.TrimSpace(record[p])
			}
			if err := m.set(c, raw); err != nil {
				return nil, &FileError{Path: path, Row: i + 2, Column: c.Name, Err: err}
			}
		}
		matches = append(matches, m)
	}
	logger.Debug("Parsed rows from", path, len(matches))
	return matches, nil
}

func isBlankRow(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
