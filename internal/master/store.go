package master

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"

	_ "modernc.org/sqlite"

	"ukrlit/internal/config"
	"ukrlit/internal/fileutil"
	"ukrlit/internal/records"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store reads and rewrites one named master dataset.
type Store struct {
	name       string
	csvPath    string
	sqlitePath string
	table      string
}

// Open returns the store configured under name.
func Open(cfg *config.Config, name string) (*Store, error) {
	settings, err := cfg.Store(name)
	if err != nil {
		return nil, err
	}
	return New(name, settings)
}

// New builds a store from explicit settings.
func New(name string, settings config.Store) (*Store, error) {
	if settings.CSVPath == "" {
		return nil, fmt.Errorf("store %s: csv path is empty", name)
	}
	if settings.SQLitePath == "" {
		return nil, fmt.Errorf("store %s: sqlite path is empty", name)
	}
	if !identifierPattern.MatchString(settings.Table) {
		return nil, fmt.Errorf("store %s: invalid table name %q", name, settings.Table)
	}
	return &Store{name: name, csvPath: settings.CSVPath, sqlitePath: settings.SQLitePath, table: settings.Table}, nil
}

// Name returns the configured store name.
func (s *Store) Name() string { return s.name }

// CSVPath returns the CSV file location.
func (s *Store) CSVPath() string { return s.csvPath }

// Table returns the SQLite table name.
func (s *Store) Table() string { return s.table }

// Load reads the persisted CSV. A missing or zero-byte file is an empty store.
func (s *Store) Load(ctx context.Context) ([]records.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(s.csvPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap(s.name, "open csv", err)
	}
	defer file.Close()

	recs, err := ReadCSV(bufio.NewReader(file))
	if err != nil {
		return nil, wrap(s.name, "parse "+s.csvPath, err)
	}
	return recs, nil
}

// Save replaces the CSV file atomically and then replaces the SQLite table in
// a single transaction.
func (s *Store) Save(ctx context.Context, recs []records.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := fileutil.WriteAtomic(s.csvPath, 0o644, func(w io.Writer) error {
		buffered := bufio.NewWriter(w)
		if err := WriteCSV(buffered, recs); err != nil {
			return err
		}
		return buffered.Flush()
	})
	if err != nil {
		return wrap(s.name, "write csv", err)
	}
	if err := s.replaceTable(ctx, recs); err != nil {
		return fmt.Errorf("%w: %w", ErrStaleTable, wrap(s.name, "write sqlite table "+s.table, err))
	}
	return nil
}

// Query returns up to limit rows of the SQLite table in stored order. A
// limit of zero or less returns every row.
func (s *Store) Query(ctx context.Context, limit int) ([]records.Record, error) {
	if _, err := os.Stat(s.sqlitePath); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	db, err := s.openDB()
	if err != nil {
		return nil, wrap(s.name, "open sqlite", err)
	}
	defer db.Close()

	query := fmt.Sprintf(`SELECT title, author, year_written, year_published FROM %s ORDER BY rowid`, quoteIdent(s.table))
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap(s.name, "query sqlite table "+s.table, err)
	}
	defer rows.Close()

	var out []records.Record
	for rows.Next() {
		var (
			title, author      sql.NullString
			written, published sql.NullInt64
		)
		if err := rows.Scan(&title, &author, &written, &published); err != nil {
			return nil, wrap(s.name, "scan row", err)
		}
		out = append(out, records.Record{
			Title:         title.String,
			Author:        author.String,
			YearWritten:   int(written.Int64),
			YearPublished: int(published.Int64),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(s.name, "iterate rows", err)
	}
	return out, nil
}

func (s *Store) openDB() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.sqlitePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return db, nil
}

func (s *Store) replaceTable(ctx context.Context, recs []records.Record) error {
	db, err := s.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	table := quoteIdent(s.table)
	statements := []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %s`, table),
		fmt.Sprintf(`CREATE TABLE %s (
            title TEXT NOT NULL,
            author TEXT NOT NULL,
            year_written INTEGER,
            year_published INTEGER
        )`, table),
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("recreate table: %w", err)
		}
	}

	insert, err := tx.PrepareContext(ctx, fmt.Sprintf(
		`INSERT INTO %s (title, author, year_written, year_published) VALUES (?, ?, ?, ?)`, table))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer insert.Close()

	for _, rec := range recs {
		if _, err := insert.ExecContext(ctx, rec.Title, rec.Author, nullableYear(rec.YearWritten), nullableYear(rec.YearPublished)); err != nil {
			return fmt.Errorf("insert row: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func nullableYear(year int) any {
	if year <= 0 {
		return nil
	}
	return year
}

func quoteIdent(name string) string {
	return `"` + name + `"`
}
