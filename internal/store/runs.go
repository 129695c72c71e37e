package store

import (
	"fmt"
	"time"
)

// Run is one recorded pipeline run
type Run struct {
	RunID                      string
	StartedAt                  time.Time
	CompletedAt                time.Time
	ScoreRows                  int
	PopulationRows             int
	PracticesRanked            int
	PCNsRanked                 int
	PracticeExcludedRows       int
	PracticeExcludedPopulation int64
	PCNExcludedRows            int
	PCNExcludedPopulation      int64
	PracticeOutput             string
	PCNOutput                  string
}

// RecordRun inserts an audit record for a completed run
func (s *Store) RecordRun(r *Run) error {
	_, err := s.db.Exec(`
		INSERT INTO runs (
			run_id, started_at, completed_at,
			score_rows, population_rows,
			practices_ranked, pcns_ranked,
			practice_excluded_rows, practice_excluded_population,
			pcn_excluded_rows, pcn_excluded_population,
			practice_output, pcn_output
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.RunID, r.StartedAt, r.CompletedAt,
		r.ScoreRows, r.PopulationRows,
		r.PracticesRanked, r.PCNsRanked,
		r.PracticeExcludedRows, r.PracticeExcludedPopulation,
		r.PCNExcludedRows, r.PCNExcludedPopulation,
		r.PracticeOutput, r.PCNOutput)

	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first
func (s *Store) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`
		SELECT run_id, started_at, completed_at,
		       score_rows, population_rows,
		       practices_ranked, pcns_ranked,
		       practice_excluded_rows, practice_excluded_population,
		       pcn_excluded_rows, pcn_excluded_population,
		       practice_output, pcn_output
		FROM runs
		ORDER BY started_at DESC, run_id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		err := rows.Scan(
			&r.RunID, &r.StartedAt, &r.CompletedAt,
			&r.ScoreRows, &r.PopulationRows,
			&r.PracticesRanked, &r.PCNsRanked,
			&r.PracticeExcludedRows, &r.PracticeExcludedPopulation,
			&r.PCNExcludedRows, &r.PCNExcludedPopulation,
			&r.PracticeOutput, &r.PCNOutput,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}
