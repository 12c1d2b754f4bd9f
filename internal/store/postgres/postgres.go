// Package postgres stores weather records in PostgreSQL through a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/i474232898/weather-tagger/internal/weather"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS weather_records (
    seq         BIGSERIAL,
    id          TEXT PRIMARY KEY,
    city        TEXT NOT NULL,
    temperature DOUBLE PRECISION NOT NULL,
    description TEXT NOT NULL,
    date        TEXT NOT NULL,
    tags        TEXT[] NOT NULL DEFAULT '{}',
    timezone    INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS weather_records_date_idx ON weather_records (date DESC);
CREATE INDEX IF NOT EXISTS weather_records_tags_idx ON weather_records USING GIN (tags);
`

const selectColumns = `SELECT id, city, temperature, description, date, tags, timezone FROM weather_records`

// Store is a weather.Store backed by a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to databaseURL and makes sure the table exists.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Store) Create(ctx context.Context, rec weather.Record) (weather.Record, error) {
	rec.ID = uuid.New().String()
	if rec.Tags == nil {
		rec.Tags = []string{}
	}

	_, err := s.pool.Exec(ctx, `
INSERT INTO weather_records (id, city, temperature, description, date, tags, timezone)
VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		rec.ID, rec.City, rec.Temperature, rec.Description, rec.Date, rec.Tags, rec.Timezone)
	if err != nil {
		return weather.Record{}, fmt.Errorf("insert weather record: %w", err)
	}
	return rec, nil
}

func (s *Store) List(ctx context.Context, q weather.ListQuery) ([]weather.Record, int, error) {
	args := []any{}
	clause := " WHERE TRUE"
	argPos := 1
	if q.Filter.Tag != "" {
		clause += " AND $" + strconv.Itoa(argPos) + " = ANY(tags)"
		args = append(args, q.Filter.Tag)
		argPos++
	}
	if len(q.Filter.Cities) > 0 {
		clause += " AND city = ANY($" + strconv.Itoa(argPos) + ")"
		args = append(args, q.Filter.Cities)
		argPos++
	}

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM weather_records"+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count weather records: %w", err)
	}

	sql := selectColumns + clause +
		" ORDER BY date DESC, seq DESC" +
		" LIMIT $" + strconv.Itoa(argPos) + " OFFSET $" + strconv.Itoa(argPos+1)
	args = append(args, q.Limit, q.Offset())

	rows, err := s.pool.Query(ctx, sql, args...)
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
	row := s.pool.QueryRow(ctx, `
UPDATE weather_records SET tags = $2 WHERE id = $1
RETURNING id, city, temperature, description, date, tags, timezone`, id, tags)

	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return weather.Record{}, weather.ErrNotFound
	}
	if err != nil {
		return weather.Record{}, fmt.Errorf("update tags: %w", err)
	}
	return rec, nil
}

func scanRecord(row pgx.Row) (weather.Record, error) {
	var rec weather.Record
	if err := row.Scan(&rec.ID, &rec.City, &rec.Temperature, &rec.Description, &rec.Date, &rec.Tags, &rec.Timezone); err != nil {
		return weather.Record{}, err
	}
	if rec.Tags == nil {
		rec.Tags = []string{}
	}
	return rec, nil
}
