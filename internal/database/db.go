// Package database keeps a local journal of inserted samples and history
// reads in SQLite.
package database

import (
	"context"
	"database/sql"
	"embed"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/digitaldrywood/fitsession/internal/fit"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

type DB struct {
	conn *sql.DB
}

func New(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create data directory")
	}

	dbPath := filepath.Join(dataDir, "fitsession.db")
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "failed to run migrations")
	}

	return db, nil
}

func (db *DB) migrate() error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "failed to set dialect")
	}
	if err := goose.Up(db.conn, "migrations"); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}
	return nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// RecordInsert stores one row per inserted point, with the insert error if any.
func (db *DB) RecordInsert(ctx context.Context, ds fit.DataSet, insertErr error) error {
	for _, p := range ds.Points {
		steps, _ := p.Value(fit.FieldSteps)
		_, err := db.conn.ExecContext(ctx, `
			INSERT INTO inserts (data_source, data_type, start_ns, end_ns, steps, error)
			VALUES (?, ?, ?, ?, ?, ?)
		`, ds.DataSource.StreamName, p.DataType.Name, p.Start.UnixNano(), p.End.UnixNano(), steps.Int, errString(insertErr))
		if err != nil {
			return errors.Wrap(err, "failed to record insert")
		}
	}
	return nil
}

func (db *DB) RecordRead(ctx context.Context, req fit.ReadRequest, resp *fit.ReadResponse, readErr error) error {
	stats := fit.ResponseStats(resp)
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO reads (start_ns, end_ns, bucket_ms, buckets, datasets, points, steps, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, req.Start.UnixNano(), req.End.UnixNano(), req.BucketDuration.Milliseconds(),
		stats.Buckets, stats.DataSets, stats.Points, int64(stats.Totals[fit.FieldSteps.Name]), errString(readErr))
	if err != nil {
		return errors.Wrap(err, "failed to record read")
	}
	return nil
}

// RecentInserts returns the newest inserts first.
func (db *DB) RecentInserts(ctx context.Context, limit int) ([]InsertRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, data_source, data_type, start_ns, end_ns, steps, error
		FROM inserts ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query inserts")
	}
	defer rows.Close()

	var records []InsertRecord
	for rows.Next() {
		var rec InsertRecord
		var startNs, endNs int64
		if err := rows.Scan(&rec.ID, &rec.DataSource, &rec.DataType, &startNs, &endNs, &rec.Steps, &rec.Error); err != nil {
			return nil, errors.Wrap(err, "failed to scan insert")
		}
		rec.Start = time.Unix(0, startNs).UTC()
		rec.End = time.Unix(0, endNs).UTC()
		records = append(records, rec)
	}
	return records, errors.Wrap(rows.Err(), "failed to read inserts")
}

// RecentReads returns the newest history reads first.
func (db *DB) RecentReads(ctx context.Context, limit int) ([]ReadRecord, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, start_ns, end_ns, buckets, datasets, points, steps, error
		FROM reads ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query reads")
	}
	defer rows.Close()

	var records []ReadRecord
	for rows.Next() {
		var rec ReadRecord
		var startNs, endNs int64
		if err := rows.Scan(&rec.ID, &startNs, &endNs, &rec.Buckets, &rec.DataSets, &rec.Points, &rec.Steps, &rec.Error); err != nil {
			return nil, errors.Wrap(err, "failed to scan read")
		}
		rec.Start = time.Unix(0, startNs).UTC()
		rec.End = time.Unix(0, endNs).UTC()
		records = append(records, rec)
	}
	return records, errors.Wrap(rows.Err(), "failed to read reads")
}

func errString(err error) sql.NullString {
	if err == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: err.Error(), Valid: true}
}

// Types
type InsertRecord struct {
	ID         int64
	DataSource string
	DataType   string
	Start      time.Time
	End        time.Time
	Steps      int64
	Error      sql.NullString
}

type ReadRecord struct {
	ID       int64
	Start    time.Time
	End      time.Time
	Buckets  int
	DataSets int
	Points   int
	Steps    int64
	Error    sql.NullString
}
