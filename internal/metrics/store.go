package metrics

import (
	"context"
	"database/sql"
	"time"
)

// FetchMetric records one attempt to load the remote recipe source.
type FetchMetric struct {
	Source      string // cache | remote | builtin
	RecipeCount int
	LatencyMS   int64
	Outcome     string // ok | empty | error
	Timestamp   time.Time
}

// Store handles persistence of fetch metrics to SQLite.
type Store struct {
	db *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record saves a metric to the database.
func (s *Store) Record(m FetchMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := s.db.ExecContext(context.Background(),
		`INSERT INTO fetch_metrics (source, recipe_count, latency_ms, outcome, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		m.Source, int64(m.RecipeCount), m.LatencyMS, m.Outcome, ts,
	)
	return err
}

// Recent retrieves the last n recorded fetches, newest first.
func (s *Store) Recent(n int) ([]FetchMetric, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT source, recipe_count, latency_ms, outcome, timestamp
		 FROM fetch_metrics ORDER BY timestamp DESC LIMIT ?`, int64(n),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []FetchMetric
	for rows.Next() {
		var m FetchMetric
		var count int64
		if err := rows.Scan(&m.Source, &count, &m.LatencyMS, &m.Outcome, &m.Timestamp); err != nil {
			return nil, err
		}
		m.RecipeCount = int(count)
		results = append(results, m)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := time.Now().AddDate(0, 0, -olderThanDays)
	res, err := s.db.ExecContext(context.Background(),
		`DELETE FROM fetch_metrics WHERE timestamp < ?`, threshold,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
