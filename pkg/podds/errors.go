package podds

import (
	"fmt"
	"net/url"
	"strings"
)

// FileError reports a dataset that could not be opened or parsed.
// Row is the 1-based spreadsheet row (header is row 1), zero when the
// problem is not tied to a row. Column is empty when not tied to a column.
type FileError struct {
	Path   string
	Row    int
	Column string
	Err    error
}

func (e *FileError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "dataset %s", redact(e.Path))
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %s", e.Column)
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func fileError(path string, err error) *FileError {
	return &FileError{Path: path, Err: err}
}

// redact hides the password of a database DSN
func redact(location string) string {
	if !isPostgresDSN(location) {
		return location
	}
	u, err := url.Parse(location)
	if err != nil {
		return "postgres://…"
	}
	return u.Redacted()
}
