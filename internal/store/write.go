package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/pica/internal/lint"
)

// Run records the findings of one lint execution. It implements
// lint.Sink.
type Run struct {
	ID string

	store *Store
	mu    sync.Mutex
	seq   int64
}

// BeginRun inserts a new run for the named rule file. Run IDs are UUIDv7,
// so they sort by start time.
func (s *Store) BeginRun(ctx context.Context, rules string) (*Run, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}

	_, err = s.exec(ctx, `
		INSERT INTO lint_runs (id, rules, started_at)
		VALUES (?, ?, ?)
	`, id.String(), rules, now())
	if err != nil {
		return nil, fmt.Errorf("begin run: %w", err)
	}
	return &Run{ID: id.String(), store: s}, nil
}

// Emit appends a finding to the run.
func (r *Run) Emit(ctx context.Context, f lint.Finding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	_, err := r.store.exec(ctx, `
		INSERT INTO findings (run_id, seq, ppn, rule_id, level, message)
		VALUES (?, ?, ?, ?, ?, ?)
	`, r.ID, r.seq, f.PPN, f.RuleID, string(f.Level), f.Message)
	if err != nil {
		return fmt.Errorf("write finding: %w", err)
	}
	return nil
}

// Finish stores the run's counters and end time.
func (r *Run) Finish(ctx context.Context, summary lint.Summary) error {
	_, err := r.store.exec(ctx, `
		UPDATE lint_runs
		SET finished_at = ?, records = ?, invalid = ?
		WHERE id = ?
	`, now(), summary.Records, summary.Invalid, r.ID)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
