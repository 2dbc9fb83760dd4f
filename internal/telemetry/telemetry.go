// Package telemetry is an opt-in compile-record recorder: when the CLI is
// given a telemetry DSN it writes one row per compile invocation
// (source path, success, diagnostic and byte counts, timing) to whichever
// SQL backend the DSN names. Grounded on internal/database's connection and
// DSN-dispatch idiom, stripped down from a security-scanning module to a
// plain event recorder — nobody needs credential tests or port scans to log
// a compile run.
package telemetry

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// CompileRecord is one logged compile or assemble run.
type CompileRecord struct {
	SourcePath      string
	Command         string // "compile" or "assemble"
	Success         bool
	DiagnosticCount int
	BytesEmitted    int
	StartedAt       time.Time
	Duration        time.Duration
}

// Recorder persists CompileRecords to a SQL backend.
type Recorder struct {
	db     *sql.DB
	driver string
}

// Connect opens a Recorder against dsn, inferring the driver from its
// scheme, and ensures the backing table exists.
func Connect(dsn string) (*Recorder, error) {
	driver, dataSource := driverForDSN(dsn)
	db, err := sql.Open(driver, dataSource)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("telemetry: ping %s: %w", driver, err)
	}
	r := &Recorder{db: db, driver: driver}
	if err := r.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// driverForDSN picks the registered database/sql driver name from a DSN
// scheme, defaulting to the pure-Go sqlite driver for a bare file path.
func driverForDSN(dsn string) (driver, dataSource string) {
	switch {
	case strings.HasPrefix(dsn, "mysql://"):
		return "mysql", strings.TrimPrefix(dsn, "mysql://")
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn
	case strings.HasPrefix(dsn, "sqlserver://"):
		return "sqlserver", dsn
	default:
		return "sqlite", strings.TrimPrefix(dsn, "sqlite://")
	}
}

func (r *Recorder) ensureSchema() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS edpy_compile_records (
		id INTEGER PRIMARY KEY,
		source_path VARCHAR(1024),
		command VARCHAR(16),
		success INTEGER,
		diagnostic_count INTEGER,
		bytes_emitted INTEGER,
		started_at VARCHAR(32),
		duration_ms INTEGER
	)`)
	return err
}

// Record inserts one compile event.
func (r *Recorder) Record(rec CompileRecord) error {
	_, err := r.db.Exec(
		`INSERT INTO edpy_compile_records
			(source_path, command, success, diagnostic_count, bytes_emitted, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.SourcePath, rec.Command, boolToInt(rec.Success), rec.DiagnosticCount, rec.BytesEmitted,
		rec.StartedAt.UTC().Format(time.RFC3339), rec.Duration.Milliseconds(),
	)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Close releases the underlying connection pool.
func (r *Recorder) Close() error {
	return r.db.Close()
}
