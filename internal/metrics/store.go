package metrics

import (
	"context"
	"database/sql"
	"time"

	"recipebox/internal/metrics/metrics_db"
	"recipebox/internal/shared"
)

// ExecutionMetric records metadata for a single LLM call.
type ExecutionMetric struct {
	AgentName        string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	queries *metricsdb.Queries
	db      *sql.DB
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		queries: metricsdb.New(db),
		db:      db,
	}
}

// sqliteTimeFormat keeps stored timestamps parseable by SQLite's date
// functions, which choke on RFC3339 nanosecond strings.
const sqliteTimeFormat = "2006-01-02 15:04:05"

// Record saves a metric to the database.
func (s *Store) Record(m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	return s.queries.InsertExecutionMetric(context.Background(), metricsdb.InsertExecutionMetricParams{
		AgentName:        m.AgentName,
		Model:            m.Model,
		PromptTokens:     int64(m.PromptTokens),
		CompletionTokens: int64(m.CompletionTokens),
		LatencyMs:        m.LatencyMS,
		Timestamp:        ts.UTC().Format(sqliteTimeFormat),
	})
}

// RecordMeta records metrics directly from shared.AgentMeta. Empty usage is
// skipped so failed calls without token counts don't pollute the table.
func (s *Store) RecordMeta(meta shared.AgentMeta) error {
	if meta.Usage.IsZero() {
		return nil
	}
	return s.Record(ExecutionMetric{
		AgentName:        meta.AgentName,
		Model:            meta.Usage.Model,
		PromptTokens:     meta.Usage.PromptTokens,
		CompletionTokens: meta.Usage.CompletionTokens,
		LatencyMS:        meta.Latency.Milliseconds(),
	})
}

// DailyUsage represents token totals for a single day.
type DailyUsage struct {
	Date            string
	TotalPrompt     int
	TotalCompletion int
	TotalExecution  int
}

// GetDailyUsage retrieves usage for the last N days.
func (s *Store) GetDailyUsage(days int) ([]DailyUsage, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format(sqliteTimeFormat)
	rows, err := s.queries.GetDailyUsage(context.Background(), since)
	if err != nil {
		return nil, err
	}

	var usage []DailyUsage
	for _, row := range rows {
		usage = append(usage, DailyUsage{
			Date:            row.Date,
			TotalPrompt:     int(row.TotalPrompt),
			TotalCompletion: int(row.TotalCompletion),
			TotalExecution:  int(row.TotalExecution),
		})
	}
	return usage, nil
}

// Cleanup removes metric records older than the given number of days and
// returns how many were deleted.
func (s *Store) Cleanup(days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(sqliteTimeFormat)
	return s.queries.CleanupExecutionMetrics(context.Background(), cutoff)
}
