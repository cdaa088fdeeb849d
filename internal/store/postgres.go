package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/adjuster-intel/internal/db"
	"github.com/sells-group/adjuster-intel/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

var _ Store = (*PostgresStore)(nil)

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

const (
	selectAdjuster    = `SELECT id, name, carrier, email, phone, region, risk_impression, created_at FROM adjusters`
	selectClaim       = `SELECT c.id, c.claim_number, c.carrier, COALESCE(c.date_of_loss, ''), c.status, c.created_at FROM claims c`
	selectInteraction = `SELECT id, adjuster_id, claim_id, type, date, outcome, notes FROM interactions`
	selectSupplement  = `SELECT id, claim_id, status, description, amount FROM supplements`
)

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS adjusters (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL DEFAULT '',
	carrier         TEXT NOT NULL DEFAULT '',
	email           TEXT NOT NULL DEFAULT '',
	phone           TEXT NOT NULL DEFAULT '',
	region          TEXT NOT NULL DEFAULT '',
	risk_impression TEXT,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS claims (
	id           TEXT PRIMARY KEY,
	claim_number TEXT NOT NULL DEFAULT '',
	carrier      TEXT NOT NULL DEFAULT '',
	date_of_loss TEXT,
	status       TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS claim_adjusters (
	claim_id    TEXT NOT NULL REFERENCES claims(id) ON DELETE CASCADE,
	adjuster_id TEXT NOT NULL REFERENCES adjusters(id) ON DELETE CASCADE,
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
	claim_id    TEXT NOT NULL REFERENCES claims(id) ON DELETE CASCADE,
	status      TEXT NOT NULL DEFAULT 'pending',
	description TEXT NOT NULL DEFAULT '',
	amount      DOUBLE PRECISION
);

CREATE INDEX IF NOT EXISTS idx_adjusters_carrier ON adjusters(carrier);
CREATE INDEX IF NOT EXISTS idx_claims_carrier ON claims(carrier);
CREATE INDEX IF NOT EXISTS idx_claim_adjusters_adjuster_id ON claim_adjusters(adjuster_id);
CREATE INDEX IF NOT EXISTS idx_interactions_adjuster_id ON interactions(adjuster_id);
CREATE INDEX IF NOT EXISTS idx_interactions_claim_id ON interactions(claim_id);
CREATE INDEX IF NOT EXISTS idx_supplements_claim_id ON supplements(claim_id);
`

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetAdjuster(ctx context.Context, id string) (*model.Adjuster, error) {
	rows, err := s.pool.Query(ctx, selectAdjuster+` WHERE id = $1`, id)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get adjuster %s", id)
	}
	a, err := pgx.CollectExactlyOneRow(rows, scanPgAdjuster)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get adjuster %s", id)
	}
	return &a, nil
}

func (s *PostgresStore) GetAllAdjusters(ctx context.Context) ([]model.Adjuster, error) {
	rows, err := s.pool.Query(ctx, selectAdjuster+` ORDER BY id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list adjusters")
	}
	out, err := pgx.CollectRows(rows, scanPgAdjuster)
	return out, eris.Wrap(err, "postgres: scan adjusters")
}

func (s *PostgresStore) GetClaimsByAdjuster(ctx context.Context, adjusterID string) ([]model.Claim, error) {
	rows, err := s.pool.Query(ctx,
		selectClaim+` JOIN claim_adjusters ca ON ca.claim_id = c.id WHERE ca.adjuster_id = $1 ORDER BY c.id`,
		adjusterID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: claims for adjuster %s", adjusterID)
	}
	out, err := pgx.CollectRows(rows, scanPgClaim)
	return out, eris.Wrap(err, "postgres: scan claims")
}

func (s *PostgresStore) GetAllClaims(ctx context.Context) ([]model.Claim, error) {
	rows, err := s.pool.Query(ctx, selectClaim+` ORDER BY c.id`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list claims")
	}
	out, err := pgx.CollectRows(rows, scanPgClaim)
	return out, eris.Wrap(err, "postgres: scan claims")
}

func (s *PostgresStore) GetInteractionsByAdjuster(ctx context.Context, adjusterID string) ([]model.Interaction, error) {
	return s.queryInteractions(ctx, selectInteraction+` WHERE adjuster_id = $1 ORDER BY date, id`, adjusterID)
}

func (s *PostgresStore) GetInteractionsByClaimID(ctx context.Context, claimID string) ([]model.Interaction, error) {
	return s.queryInteractions(ctx, selectInteraction+` WHERE claim_id = $1 ORDER BY date, id`, claimID)
}

// GetInteractionsByClaimIDs fetches the interactions of many claims in one
// round trip.
func (s *PostgresStore) GetInteractionsByClaimIDs(ctx context.Context, claimIDs []string) ([]model.Interaction, error) {
	if len(claimIDs) == 0 {
		return nil, nil
	}
	return s.queryInteractions(ctx, selectInteraction+` WHERE claim_id = ANY($1) ORDER BY date, id`, claimIDs)
}

func (s *PostgresStore) GetAllInteractions(ctx context.Context) ([]model.Interaction, error) {
	return s.queryInteractions(ctx, selectInteraction+` ORDER BY date, id`)
}

func (s *PostgresStore) queryInteractions(ctx context.Context, sql string, args ...any) ([]model.Interaction, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query interactions")
	}
	out, err := pgx.CollectRows(rows, scanPgInteraction)
	return out, eris.Wrap(err, "postgres: scan interactions")
}

func (s *PostgresStore) GetSupplementsByClaimIDs(ctx context.Context, claimIDs []string) ([]model.Supplement, error) {
	if len(claimIDs) == 0 {
		return nil, nil
	}
	return s.querySupplements(ctx, selectSupplement+` WHERE claim_id = ANY($1) ORDER BY id`, claimIDs)
}

func (s *PostgresStore) GetAllSupplements(ctx context.Context) ([]model.Supplement, error) {
	return s.querySupplements(ctx, selectSupplement+` ORDER BY id`)
}

func (s *PostgresStore) querySupplements(ctx context.Context, sql string, args ...any) ([]model.Supplement, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query supplements")
	}
	out, err := pgx.CollectRows(rows, scanPgSupplement)
	return out, eris.Wrap(err, "postgres: scan supplements")
}

// SaveSnapshot truncates every entity table and bulk-loads snap with COPY.
func (s *PostgresStore) SaveSnapshot(ctx context.Context, snap model.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin snapshot")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := db.Truncate(ctx, tx, tables...); err != nil {
		return eris.Wrap(err, "postgres: save snapshot")
	}

	rows := snapshotRows(snap)
	for _, table := range tables {
		n, err := db.CopyFrom(ctx, tx, table, columnsFor(table), rows[table])
		if err != nil {
			return eris.Wrap(err, "postgres: save snapshot")
		}
		zap.L().Debug("postgres: copied rows", zap.String("table", table), zap.Int64("rows", n))
	}

	return eris.Wrap(tx.Commit(ctx), "postgres: commit snapshot")
}

func scanPgAdjuster(row pgx.CollectableRow) (model.Adjuster, error) {
	var a model.Adjuster
	err := row.Scan(&a.ID, &a.Name, &a.Carrier, &a.Email, &a.Phone, &a.Region, &a.RiskImpression, &a.CreatedAt)
	return a, err
}

func scanPgClaim(row pgx.CollectableRow) (model.Claim, error) {
	var c model.Claim
	err := row.Scan(&c.ID, &c.ClaimNumber, &c.Carrier, &c.DateOfLoss, &c.Status, &c.CreatedAt)
	return c, err
}

func scanPgInteraction(row pgx.CollectableRow) (model.Interaction, error) {
	var in model.Interaction
	err := row.Scan(&in.ID, &in.AdjusterID, &in.ClaimID, &in.Type, &in.Date, &in.Outcome, &in.Notes)
	return in, err
}

func scanPgSupplement(row pgx.CollectableRow) (model.Supplement, error) {
	var s model.Supplement
	var status string
	err := row.Scan(&s.ID, &s.ClaimID, &status, &s.Description, &s.Amount)
	s.Status = model.SupplementStatus(status)
	return s, err
}
