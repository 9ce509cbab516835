package scaling

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/attunehq/ygmbench/scheduler"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// Ledger records batch submissions in a SQLite database so a campaign can
// be traced back to the exact scripts that were queued.
type Ledger struct {
	db *sql.DB
}

// OpenLedger opens or creates the ledger at path.
func OpenLedger(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize ledger: %w", err)
	}
	return &Ledger{db: db}, nil
}

func initSchema(db *sql.DB) error {
	const createSubmissions = `
CREATE TABLE IF NOT EXISTS submissions (
  id                   INTEGER PRIMARY KEY AUTOINCREMENT,
  campaign             TEXT NOT NULL,
  scheduler            TEXT NOT NULL,
  nodes                INTEGER NOT NULL,
  table_scale          INTEGER NOT NULL,
  cc_rmat_scale        INTEGER NOT NULL,
  cc_linked_list_scale INTEGER NOT NULL,
  krowkee_vertex_scale INTEGER NOT NULL,
  output_file          TEXT,
  work_dir             TEXT,
  script               TEXT,
  exit_code            INTEGER,
  submitted_at         TEXT
);`
	if _, err := db.Exec(createSubmissions); err != nil {
		return err
	}
	_, err := db.Exec(`CREATE INDEX IF NOT EXISTS submissions_campaign ON submissions (campaign)`)
	return err
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record appends sub to the ledger.
func (l *Ledger) Record(ctx context.Context, sub Submission) error {
	_, err := l.db.ExecContext(ctx, `
INSERT INTO submissions (campaign, scheduler, nodes, table_scale, cc_rmat_scale, cc_linked_list_scale,
                         krowkee_vertex_scale, output_file, work_dir, script, exit_code, submitted_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.Campaign,
		string(sub.Scheduler),
		sub.Point.Nodes,
		sub.Point.TableScale,
		sub.Point.CCRMATScale,
		sub.Point.CCLinkedListScale,
		sub.Point.KrowkeeVertexScale,
		sub.OutputFile,
		sub.WorkDir,
		sub.Script,
		sub.ExitCode,
		sub.SubmittedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return nil
}

// Submissions returns the recorded submissions of campaign in the order
// they were made, or of every campaign when campaign is empty.
func (l *Ledger) Submissions(ctx context.Context, campaign string) ([]Submission, error) {
	query := `SELECT campaign, scheduler, nodes, table_scale, cc_rmat_scale, cc_linked_list_scale,
                     krowkee_vertex_scale, output_file, work_dir, script, exit_code, submitted_at
              FROM submissions`
	var args []any
	if campaign != "" {
		query += ` WHERE campaign = ?`
		args = append(args, campaign)
	}
	query += ` ORDER BY id`

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var (
			sub         Submission
			kind        string
			submittedAt string
		)
		if err := rows.Scan(
			&sub.Campaign,
			&kind,
			&sub.Point.Nodes,
			&sub.Point.TableScale,
			&sub.Point.CCRMATScale,
			&sub.Point.CCLinkedListScale,
			&sub.Point.KrowkeeVertexScale,
			&sub.OutputFile,
			&sub.WorkDir,
			&sub.Script,
			&sub.ExitCode,
			&submittedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to read submission: %w", err)
		}
		sub.Scheduler = scheduler.Kind(kind)
		if sub.SubmittedAt, err = time.Parse(time.RFC3339Nano, submittedAt); err != nil {
			return nil, fmt.Errorf("failed to parse submission time %q: %w", submittedAt, err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
