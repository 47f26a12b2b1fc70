package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/pica/internal/lint"
)

// RunInfo describes a stored run.
type RunInfo struct {
	ID         string `json:"id"`
	Rules      string `json:"rules"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
	Records    int    `json:"records"`
	Invalid    int    `json:"invalid"`
	Findings   int    `json:"findings"`
}

// Runs returns every run, oldest first.
//
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) Runs(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.query(ctx, `
		SELECT r.id, r.rules, r.started_at, r.finished_at, r.records, r.invalid,
		       (SELECT COUNT(*) FROM findings f WHERE f.run_id = r.id)
		FROM lint_runs r
		ORDER BY r.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunInfo{}
	for rows.Next() {
		var info RunInfo
		var finished sql.NullString
		if err := rows.Scan(&info.ID, &info.Rules, &info.StartedAt, &finished,
			&info.Records, &info.Invalid, &info.Findings); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		info.FinishedAt = finished.String
		runs = append(runs, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Findings returns the findings of a run in emission order.
//
// Returns an empty slice (not nil) if the run has no findings.
func (s *Store) Findings(ctx context.Context, runID string) ([]lint.Finding, error) {
	rows, err := s.query(ctx, `
		SELECT ppn, rule_id, level, message
		FROM findings
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query findings: %w", err)
	}
	defer rows.Close()

	findings := []lint.Finding{}
	for rows.Next() {
		var f lint.Finding
		var level string
		if err := rows.Scan(&f.PPN, &f.RuleID, &level, &f.Message); err != nil {
			return nil, fmt.Errorf("scan finding: %w", err)
		}
		f.Level = lint.Level(level)
		findings = append(findings, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate findings: %w", err)
	}
	return findings, nil
}

// CountByRule returns the number of findings per rule of a run.
func (s *Store) CountByRule(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.query(ctx, `
		SELECT rule_id, COUNT(*)
		FROM findings
		WHERE run_id = ?
		GROUP BY rule_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("count findings: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var rule string
		var n int
		if err := rows.Scan(&rule, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[rule] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}
