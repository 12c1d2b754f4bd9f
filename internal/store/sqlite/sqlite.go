// Package sqlite stores weather records in a single SQLite table. Tags are
// kept as a JSON array and queried with json_each.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/i474232898/weather-tagger/internal/weather"
)

const schema = `
CREATE TABLE IF NOT EXISTS weather_records (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT NOT NULL UNIQUE,
	city        TEXT NOT NULL,
	temperature REAL NOT NULL,
	description TEXT NOT NULL,
	date        TEXT NOT NULL,
	tags        TEXT NOT NULL DEFAULT '[]',
	timezone    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_weather_records_date ON weather_records(date DESC);
CREATE INDEX IF NOT EXISTS idx_weather_records_city ON weather_records(city);
`

// Store is a weather.Store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		dsn = fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Every new connection would see its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Create(ctx context.Context, rec weather.Record) (weather.Record, error) {
	rec.ID = uuid.New().String()
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return weather.Record{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO weather_records (id, city, temperature, description, date, tags, timezone)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.City, rec.Temperature, rec.Description, rec.Date, string(tags), rec.Timezone,
	)
	if err != nil {
		return weather.Record{}, fmt.Errorf("insert weather record: %w", err)
	}
	return rec, nil
}

func (s *Store) List(ctx context.Context, q weather.ListQuery) ([]weather.Record, int, error) {
	where, args := whereClause(q.Filter)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM weather_records"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count weather records: %w", err)
	}

	query := `SELECT id, city, temperature, description, date, tags, timezone FROM weather_records` +
		where + ` ORDER BY date DESC, seq DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("query weather records: %w", err)
	}
	defer rows.Close()

	records := make([]weather.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

func (s *Store) UpdateTags(ctx context.Context, id string, tags []string) (weather.Record, error) {
	encoded, err := json.Marshal(tags)
	if err != nil {
		return weather.Record{}, err
	}

	res, err := s.db.ExecContext(ctx, `UPDATE weather_records SET tags = ? WHERE id = ?`, string(encoded), id)
	if err != nil {
		return weather.Record{}, fmt.Errorf("update tags: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return weather.Record{}, err
	} else if n == 0 {
		return weather.Record{}, weather.ErrNotFound
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, city, temperature, description, date, tags, timezone FROM weather_records WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return weather.Record{}, weather.ErrNotFound
	}
	return rec, err
}

func (s *Store) Close() error {
	return s.db.Close()
}

func whereClause(f weather.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Tag != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM json_each(weather_records.tags) WHERE json_each.value = ?)")
		args = append(args, f.Tag)
	}
	if len(f.Cities) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.Cities)), ",")
		conds = append(conds, "city IN ("+placeholders+")")
		for _, c := range f.Cities {
			args = append(args, c)
		}
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (weather.Record, error) {
	var (
		rec  weather.Record
		tags string
	)
	if err := sc.Scan(&rec.ID, &rec.City, &rec.Temperature, &rec.Description, &rec.Date, &tags, &rec.Timezone); err != nil {
		return weather.Record{}, err
	}
	if err := json.Unmarshal([]byte(tags), &rec.Tags); err != nil {
		return weather.Record{}, fmt.Errorf("decode tags of %s: %w", rec.ID, err)
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	return rec, nil
}
