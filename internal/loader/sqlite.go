package loader

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"regexp"

	_ "modernc.org/sqlite"
)

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteSource reads scored candidates from a table in a SQLite database.
type SQLiteSource struct {
	Path  string
	Table string
}

// NewSQLiteSource creates a source over dbPath. An empty table defaults to "candidates".
func NewSQLiteSource(dbPath, table string) *SQLiteSource {
	if table == "" {
		table = "candidates"
	}
	return &SQLiteSource{Path: dbPath, Table: table}
}

func (s *SQLiteSource) Name() string { return "sqlite:" + s.Path + "#" + s.Table }

// Load opens the database, reads the whole table and closes it again.
func (s *SQLiteSource) Load() (*RecordSet, error) {
	if !tableName.MatchString(s.Table) {
		return nil, fmt.Errorf("invalid table name %q", s.Table)
	}

	if _, err := os.Stat(s.Path); err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db, err := sql.Open("sqlite", s.Path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf(`SELECT * FROM "%s"`, s.Table))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", s.Table, err)
	}

	rs := &RecordSet{Fields: make(map[string]bool, len(cols))}
	for _, c := range cols {
		rs.Fields[c] = true
	}

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.Table, err)
		}
		rec := make(Record, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				rec[c] = string(b)
				continue
			}
			rec[c] = values[i]
		}
		rs.Rows = append(rs.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Table, err)
	}

	log.Printf("[INFO] sqlite source read %d rows from %s", len(rs.Rows), s.Table)
	return rs, nil
}
