package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/sagarc03/settlersdb"
)

// DefaultBatchSize is the number of users backfilled per statement.
const DefaultBatchSize = 100

// Upgrade steps, as reported in MigrationError.Step.
const (
	StepAddColumn   = "add-column"
	StepBackfill    = "backfill"
	StepCreateIndex = "create-index"
)

const (
	ddlAddNicknameLC  = `ALTER TABLE users ADD COLUMN nickname_lc VARCHAR(20)`
	ddlDropNicknameLC = `ALTER TABLE users DROP COLUMN nickname_lc`
	ddlCreateIndex    = `CREATE UNIQUE INDEX users__l ON users(nickname_lc)`
)

// UpgradeState is the outcome of an upgrade run.
type UpgradeState int

const (
	StateNotNeeded UpgradeState = iota
	StatePrecheckFailed
	StateInProgress
	StateCommitted
	StateRolledBack
)

func (s UpgradeState) String() string {
	switch s {
	case StateNotNeeded:
		return "not-needed"
	case StatePrecheckFailed:
		return "precheck-failed"
	case StateInProgress:
		return "in-progress"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled-back"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// UpgradeReport describes one upgrade run.
type UpgradeReport struct {
	RunID    string        `json:"run_id" yaml:"run_id"`
	From     SchemaVersion `json:"from" yaml:"from"`
	To       SchemaVersion `json:"to" yaml:"to"`
	State    UpgradeState  `json:"-" yaml:"-"`
	Users    int           `json:"users" yaml:"users"`
	Batches  []int         `json:"batches,omitempty" yaml:"batches,omitempty"`
	Started  time.Time     `json:"started" yaml:"started"`
	Finished time.Time     `json:"finished" yaml:"finished"`
}

// PrecheckError lists nicknames that would collide under the case-insensitive
// unique index. The upgrade made no changes.
type PrecheckError struct {
	Groups map[string][]string
}

func (e *PrecheckError) Error() string {
	var b strings.Builder
	b.WriteString("These groups of users' nicknames collide with each other when lowercase:\n")
	for _, g := range e.SortedGroups() {
		fmt.Fprintf(&b, "[%s]\n", strings.Join(g, ", "))
	}
	b.WriteString("\n")
	b.WriteString(Remediation)
	return b.String()
}

// SortedGroups returns the colliding groups ordered by their lowercase key.
func (e *PrecheckError) SortedGroups() [][]string {
	keys := make([]string, 0, len(e.Groups))
	for k := range e.Groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	groups := make([][]string, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, e.Groups[k])
	}
	return groups
}

// Remediation tells the operator how to resolve nickname collisions.
const Remediation = `To upgrade, the nicknames must be changed to be unique when lowercase.
Contact each user and determine new nicknames, then for each user run this SQL:
  BEGIN;
  UPDATE users SET nickname='newnick' WHERE nickname='oldnick';
  UPDATE logins SET nickname='newnick' WHERE nickname='oldnick';
  UPDATE games SET player1='newnick' WHERE player1='oldnick';
  UPDATE games SET player2='newnick' WHERE player2='oldnick';
  UPDATE games SET player3='newnick' WHERE player3='oldnick';
  UPDATE games SET player4='newnick' WHERE player4='oldnick';
  COMMIT;
Then, retry the DB schema upgrade.
`

// MigrationError reports a failed upgrade step and what was done to undo it.
type MigrationError struct {
	Step string
	Err  error
	// Compensated is true when the added column was dropped again.
	Compensated     bool
	CompensationErr error
	// RestoreFromBackup is true when the database was left partly upgraded
	// and must be restored by the operator.
	RestoreFromBackup bool
}

func (e *MigrationError) Error() string {
	msg := fmt.Sprintf("schema upgrade failed at %s: %v", e.Step, e.Err)
	switch {
	case e.RestoreFromBackup && e.CompensationErr != nil:
		msg += fmt.Sprintf("; rollback failed: %v; must restore database from backup", e.CompensationErr)
	case e.RestoreFromBackup:
		msg += "; could not roll back: must restore database from backup"
	case e.Compensated:
		msg += "; rolled back"
	}
	return msg
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// Upgrader moves a database to SchemaLatest.
type Upgrader struct {
	m *Manager
	// BatchSize caps the users backfilled per statement.
	BatchSize int

	// batchHook runs before each backfill batch with the batch's 1-based
	// index; an error aborts the backfill.
	batchHook func(batch int) error
}

// NewUpgrader returns an Upgrader for m with DefaultBatchSize.
func NewUpgrader(m *Manager) *Upgrader {
	return &Upgrader{m: m, BatchSize: DefaultBatchSize}
}

// Precheck reports nickname collisions that would break the unique index as
// a *PrecheckError. It changes nothing.
func (u *Upgrader) Precheck(ctx context.Context) error {
	dupes, err := NewStore(u.m).FindDuplicateNames(ctx)
	if err != nil {
		return fmt.Errorf("precheck: %w", err)
	}
	if len(dupes) > 0 {
		return &PrecheckError{Groups: dupes}
	}
	return nil
}

// Upgrade adds users.nickname_lc, fills it and creates the unique index
// users__l. A failure after the column was added drops it again. Failed
// statements mark the connection failed so the next call reconnects. On
// success the Manager switches to the new statements.
func (u *Upgrader) Upgrade(ctx context.Context) (UpgradeReport, error) {
	report := UpgradeReport{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	log := slog.With("run_id", report.RunID)

	ok, err := u.m.EnsureConnected(ctx)
	if err != nil {
		return report, err
	}
	if !ok {
		return report, settlersdb.ErrNotConnected
	}

	report.From = u.m.Version()
	report.To = report.From
	if u.m.catalog.IsLatest() {
		report.State = StateNotNeeded
		return report, fmt.Errorf("upgrade: %w", settlersdb.ErrSchemaLatest)
	}

	if err := u.Precheck(ctx); err != nil {
		report.State = StatePrecheckFailed
		return report, err
	}

	log.Info("schema upgrade started", "from", int(report.From), "to", int(SchemaLatest))
	report.State = StateInProgress
	if err := u.m.closeStatements(); err != nil {
		log.Warn("failed to close prepared statements", "err", err)
	}

	if _, err := u.m.db.ExecContext(ctx, ddlAddNicknameLC); err != nil {
		u.m.markFailed()
		report.State = StateRolledBack
		report.Finished = time.Now()
		return report, &MigrationError{Step: StepAddColumn, Err: fmt.Errorf("%w: %w", settlersdb.ErrQuery, err)}
	}

	if err := u.backfill(ctx, &report); err != nil {
		if errors.Is(err, settlersdb.ErrQuery) {
			u.m.markFailed()
		}
		return u.rollback(ctx, log, report, StepBackfill, err)
	}

	if _, err := u.m.db.ExecContext(ctx, ddlCreateIndex); err != nil {
		u.m.markFailed()
		return u.rollback(ctx, log, report, StepCreateIndex, fmt.Errorf("%w: %w", settlersdb.ErrQuery, err))
	}

	u.m.refreshCatalog(ctx)
	report.To = u.m.Version()
	report.State = StateCommitted
	report.Finished = time.Now()

	log.Info("schema upgrade completed",
		"to", int(report.To),
		"users", report.Users,
		"batches", len(report.Batches),
		"duration", report.Finished.Sub(report.Started),
	)
	return report, nil
}

// backfill sets nickname_lc for every user inside one transaction.
func (u *Upgrader) backfill(ctx context.Context, report *UpgradeReport) error {
	size := u.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	tx, err := u.m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", settlersdb.ErrQuery, err)
	}
	defer func() { _ = tx.Rollback() }()

	names, err := u.m.nicknames(ctx, tx)
	if err != nil {
		return fmt.Errorf("%w: read nicknames: %w", settlersdb.ErrQuery, err)
	}
	report.Users = len(names)
	if len(names) == 0 {
		return nil
	}

	var batches []int
	for chunk := range slices.Chunk(names, size) {
		if u.batchHook != nil {
			if err := u.batchHook(len(batches) + 1); err != nil {
				return err
			}
		}

		q, args, err := backfillStatement(chunk)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), args...); err != nil {
			return fmt.Errorf("%w: batch %d: %w", settlersdb.ErrQuery, len(batches)+1, err)
		}
		batches = append(batches, len(chunk))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", settlersdb.ErrQuery, err)
	}
	report.Batches = batches
	return nil
}

// backfillStatement builds one UPDATE that sets nickname_lc for every name
// in the batch.
func backfillStatement(names []string) (string, []any, error) {
	var b strings.Builder
	b.WriteString("UPDATE users SET nickname_lc = CASE nickname")
	args := make([]any, 0, 2*len(names)+1)
	for _, n := range names {
		b.WriteString(" WHEN ? THEN ?")
		args = append(args, n, settlersdb.LowerNickname(n))
	}
	b.WriteString(" END WHERE nickname IN (?)")
	args = append(args, names)

	q, args, err := sqlx.In(b.String(), args...)
	if err != nil {
		return "", nil, fmt.Errorf("build backfill: %w", err)
	}
	return q, args, nil
}

// rollback drops the added column again and reports err. If the drop fails
// too, the operator must restore the database from backup.
func (u *Upgrader) rollback(ctx context.Context, log *slog.Logger, report UpgradeReport, step string, err error) (UpgradeReport, error) {
	log.Error("schema upgrade failed, rolling back", "step", step, "err", err)

	merr := &MigrationError{Step: step, Err: err}
	if _, derr := u.m.db.ExecContext(ctx, ddlDropNicknameLC); derr != nil {
		u.m.markFailed()
		merr.CompensationErr = derr
		merr.RestoreFromBackup = true
		log.Error("could not roll back failed upgrade: must restore database from backup", "err", derr)
	} else {
		merr.Compensated = true
	}

	// The catalog keeps the old statements.
	report.State = StateRolledBack
	report.Finished = time.Now()
	return report, merr
}
