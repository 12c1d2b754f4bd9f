package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/i474232898/weather-tagger/internal/store/mongo"
	"github.com/i474232898/weather-tagger/internal/store/postgres"
	"github.com/i474232898/weather-tagger/internal/store/sqlite"
	"github.com/i474232898/weather-tagger/internal/weather"
)

// Open returns the store selected by the scheme of databaseURL:
//
//	""  or memory://            in-process MemoryStore
//	sqlite://<path>             SQLite file (sqlite://:memory: for a private in-memory db)
//	postgres:// or postgresql:// PostgreSQL
//	mongodb:// or mongodb+srv:// MongoDB, using mongoDatabase
func Open(ctx context.Context, databaseURL, mongoDatabase string) (weather.Store, error) {
	switch {
	case databaseURL == "" || strings.HasPrefix(databaseURL, "memory://"):
		return NewMemoryStore(), nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return postgres.New(ctx, databaseURL)
	case strings.HasPrefix(databaseURL, "mongodb://"), strings.HasPrefix(databaseURL, "mongodb+srv://"):
		return mongo.New(ctx, databaseURL, mongoDatabase)
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL scheme: %q", schemeOf(databaseURL))
	}
}

// Kind names the backend Open would pick, for logging without leaking credentials.
func Kind(databaseURL string) string {
	if databaseURL == "" {
		return "memory"
	}
	return schemeOf(databaseURL)
}

func schemeOf(u string) string {
	if i := strings.Index(u, "://"); i >= 0 {
		return u[:i]
	}
	return u
}
