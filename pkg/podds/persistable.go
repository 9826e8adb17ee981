package podds

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/richard-senior/podds-web/internal/logger"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validTableName(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

/////////////////////////////////////////////////////////////////////////
////// Reading
/////////////////////////////////////////////////////////////////////////

func loadSQLite(ctx context.Context, path, table string) ([]Match, error) {
	// sql.Open would happily create an empty database
	if _, err := os.Stat(path); err != nil {
		return nil, fileError(path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fileError(path, fmt.Errorf("failed to open database: %w", err))
	}
	defer db.Close()

	return readSQL(ctx, db, path, table)
}

func loadPostgres(ctx context.Context, dsn, table string) ([]Match, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fileError(dsn, fmt.Errorf("failed to open database: %w", err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fileError(dsn, fmt.Errorf("failed to ping database: %w", err))
	}
	return readSQL(ctx, db, dsn, table)
}

// readSQL selects every Match column from table and feeds the rows
// through the same parser as the spreadsheet formats
func readSQL(ctx context.Context, db *sql.DB, location, table string) ([]Match, error) {
	if err := validTableName(table); err != nil {
		return nil, fileError(location, err)
	}

	cols := Columns()
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), table)
	logger.Debug("Dataset SQL", query)

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fileError(location, fmt.Errorf("failed to query %s: %w", table, err))
	}
	defer rows.Close()

	records := [][]string{cols}
	for rows.Next() {
		dest := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fileError(location, fmt.Errorf("failed to scan row from %s: %w", table, err))
		}
		record := make([]string, len(cols))
		for i, v := range dest {
			record[i] = asString(v)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fileError(location, fmt.Errorf("error iterating rows from %s: %w", table, err))
	}
	return parseRows(location, records)
}

// asString renders a driver value the way it would appear in a spreadsheet cell
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Format(DateLayout)
		}
		return t.Format(DateLayout + " 15:04:05")
	default:
		return fmt.Sprintf("%v", t)
	}
}

/////////////////////////////////////////////////////////////////////////
////// Writing (import command)
/////////////////////////////////////////////////////////////////////////

// createTableSQL generates CREATE TABLE from the Match struct tags
func createTableSQL(table string) string {
	defs := make([]string, 0, len(matchColumns)+1)
	defs = append(defs, "id INTEGER PRIMARY KEY AUTOINCREMENT")
	for _, c := range matchColumns {
		defs = append(defs, c.Name+" "+c.DBType)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(defs, ",\n\t"))
}

func createIndexSQL(table string) []string {
	var out []string
	for _, c := range matchColumns {
		if c.Index {
			out = append(out, fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)", table, c.Name, table, c.Name))
		}
	}
	return out
}

// WriteSQLite replaces the contents of table in the SQLite database at
// path with matches, creating the file and table as needed
func WriteSQLite(ctx context.Context, path, table string, matches []Match) error {
	if table == "" {
		table = DefaultTableName
	}
	if err := validTableName(table); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	stmts := append([]string{createTableSQL(table)}, createIndexSQL(table)...)
	for _, stmt := range stmts {
		logger.Debug("Schema SQL", stmt)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema (%s): %w", stmt, err)
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}

	cols := Columns()
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	insert, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	for i := range matches {
		if _, err := insert.ExecContext(ctx, matches[i].values()...); err != nil {
			return fmt.Errorf("inserting %s (%s): %w", matches[i].Teams, matches[i].MatchDate, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import tx: %w", err)
	}
	logger.Info("Imported matches into", path, "table", table, "rows:", len(matches))
	return nil
}
