package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/adjuster-intel/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS adjusters (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL DEFAULT '',
	carrier         TEXT NOT NULL DEFAULT '',
	email           TEXT NOT NULL DEFAULT '',
	phone           TEXT NOT NULL DEFAULT '',
	region          TEXT NOT NULL DEFAULT '',
	risk_impression TEXT,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS claims (
	id           TEXT PRIMARY KEY,
	claim_number TEXT NOT NULL DEFAULT '',
	carrier      TEXT NOT NULL DEFAULT '',
	date_of_loss TEXT,
	status       TEXT NOT NULL DEFAULT '',
	created_at   DATETIME
);

CREATE TABLE IF NOT EXISTS claim_adjusters (
	claim_id    TEXT NOT NULL REFERENCES claims(id),
	adjuster_id TEXT NOT NULL REFERENCES adjusters(id),
	PRIMARY KEY (claim_id, adjuster_id)
);

CREATE TABLE IF NOT EXISTS interactions (
	id          TEXT PRIMARY KEY,
	adjuster_id TEXT NOT NULL,
	claim_id    TEXT,
	type        TEXT NOT NULL DEFAULT '',
	date        TEXT NOT NULL DEFAULT '',
	outcome     TEXT,
	notes       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS supplements (
	id          TEXT PRIMARY KEY,
	claim_id    TEXT NOT NULL REFERENCES claims(id),
	status      TEXT NOT NULL DEFAULT 'pending',
	description TEXT NOT NULL DEFAULT '',
	amount      REAL
);

CREATE INDEX IF NOT EXISTS idx_adjusters_carrier ON adjusters(carrier);
CREATE INDEX IF NOT EXISTS idx_claims_carrier ON claims(carrier);
CREATE INDEX IF NOT EXISTS idx_claim_adjusters_adjuster_id ON claim_adjusters(adjuster_id);
CREATE INDEX IF NOT EXISTS idx_interactions_adjuster_id ON interactions(adjuster_id);
CREATE INDEX IF NOT EXISTS idx_interactions_claim_id ON interactions(claim_id);
CREATE INDEX IF NOT EXISTS idx_supplements_claim_id ON supplements(claim_id);
`

// Ping checks the database handle.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return eris.Wrap(s.db.PingContext(ctx), "sqlite: ping")
}

// Migrate creates the schema if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetAdjuster(ctx context.Context, id string) (*model.Adjuster, error) {
	row := s.db.QueryRowContext(ctx, selectAdjuster+` WHERE id = ?`, id)
	a, err := scanAdjuster(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get adjuster %s", id)
	}
	return &a, nil
}

func (s *SQLiteStore) GetAllAdjusters(ctx context.Context) ([]model.Adjuster, error) {
	rows, err := s.db.QueryContext(ctx, selectAdjuster+` ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list adjusters")
	}
	return collect(rows, scanAdjuster, "adjusters")
}

func (s *SQLiteStore) GetClaimsByAdjuster(ctx context.Context, adjusterID string) ([]model.Claim, error) {
	rows, err := s.db.QueryContext(ctx,
		selectClaim+` JOIN claim_adjusters ca ON ca.claim_id = c.id WHERE ca.adjuster_id = ? ORDER BY c.id`,
		adjusterID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: claims for adjuster %s", adjusterID)
	}
	return collect(rows, scanClaim, "claims")
}

func (s *SQLiteStore) GetAllClaims(ctx context.Context) ([]model.Claim, error) {
	rows, err := s.db.QueryContext(ctx, selectClaim+` ORDER BY c.id`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list claims")
	}
	return collect(rows, scanClaim, "claims")
}

func (s *SQLiteStore) GetInteractionsByAdjuster(ctx context.Context, adjusterID string) ([]model.Interaction, error) {
	return s.queryInteractions(ctx, selectInteraction+` WHERE adjuster_id = ? ORDER BY date, id`, adjusterID)
}

func (s *SQLiteStore) GetInteractionsByClaimID(ctx context.Context, claimID string) ([]model.Interaction, error) {
	return s.queryInteractions(ctx, selectInteraction+` WHERE claim_id = ? ORDER BY date, id`, claimID)
}

// GetInteractionsByClaimIDs fetches the interactions of many claims in one
// query.
func (s *SQLiteStore) GetInteractionsByClaimIDs(ctx context.Context, claimIDs []string) ([]model.Interaction, error) {
	if len(claimIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(claimIDs)
	return s.queryInteractions(ctx, selectInteraction+` WHERE claim_id IN `+in+` ORDER BY date, id`, args...)
}

func (s *SQLiteStore) GetAllInteractions(ctx context.Context) ([]model.Interaction, error) {
	return s.queryInteractions(ctx, selectInteraction+` ORDER BY date, id`)
}

func (s *SQLiteStore) queryInteractions(ctx context.Context, query string, args ...any) ([]model.Interaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query interactions")
	}
	return collect(rows, scanInteraction, "interactions")
}

func (s *SQLiteStore) GetSupplementsByClaimIDs(ctx context.Context, claimIDs []string) ([]model.Supplement, error) {
	if len(claimIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(claimIDs)
	return s.querySupplements(ctx, selectSupplement+` WHERE claim_id IN `+in+` ORDER BY id`, args...)
}

func (s *SQLiteStore) GetAllSupplements(ctx context.Context) ([]model.Supplement, error) {
	return s.querySupplements(ctx, selectSupplement+` ORDER BY id`)
}

func (s *SQLiteStore) querySupplements(ctx context.Context, query string, args ...any) ([]model.Supplement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query supplements")
	}
	return collect(rows, scanSupplement, "supplements")
}

// SaveSnapshot replaces every entity table with snap inside one transaction.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin snapshot")
	}
	defer tx.Rollback() //nolint:errcheck

	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+tables[i]); err != nil {
			return eris.Wrapf(err, "sqlite: clear %s", tables[i])
		}
	}

	rows := snapshotRows(snap)
	for _, table := range tables {
		if err := insertRows(ctx, tx, table, columnsFor(table), rows[table]); err != nil {
			return err
		}
	}

	return eris.Wrap(tx.Commit(), "sqlite: commit snapshot")
}

func insertRows(ctx context.Context, tx *sql.Tx, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO `+table+` (`+strings.Join(columns, ", ")+`) VALUES (`+placeholders+`)`,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: prepare insert %s", table)
	}
	defer stmt.Close() //nolint:errcheck

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			return eris.Wrapf(err, "sqlite: insert %s", table)
		}
	}
	return nil
}

// inClause renders "(?, ?, ...)" for ids.
func inClause(ids []string) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ") + ")", args
}

type scannable interface {
	Scan(dest ...any) error
}

func collect[T any](rows *sql.Rows, scan func(scannable) (T, error), what string) ([]T, error) {
	defer rows.Close() //nolint:errcheck

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan %s", what)
		}
		out = append(out, v)
	}
	return out, eris.Wrapf(rows.Err(), "sqlite: iterate %s", what)
}

func scanAdjuster(row scannable) (model.Adjuster, error) {
	var a model.Adjuster
	err := row.Scan(&a.ID, &a.Name, &a.Carrier, &a.Email, &a.Phone, &a.Region, &a.RiskImpression, &a.CreatedAt)
	return a, err
}

func scanClaim(row scannable) (model.Claim, error) {
	var c model.Claim
	err := row.Scan(&c.ID, &c.ClaimNumber, &c.Carrier, &c.DateOfLoss, &c.Status, &c.CreatedAt)
	return c, err
}

func scanInteraction(row scannable) (model.Interaction, error) {
	var in model.Interaction
	err := row.Scan(&in.ID, &in.AdjusterID, &in.ClaimID, &in.Type, &in.Date, &in.Outcome, &in.Notes)
	return in, err
}

func scanSupplement(row scannable) (model.Supplement, error) {
	var s model.Supplement
	var status string
	err := row.Scan(&s.ID, &s.ClaimID, &status, &s.Description, &s.Amount)
	s.Status = model.SupplementStatus(status)
	return s, err
}
