package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
	"github.com/m-mizutani/goerr/v2"
	"github.com/the-ledger/ledger/pkg/domain/interfaces"
	"github.com/the-ledger/ledger/pkg/domain/model/asset"
	"github.com/the-ledger/ledger/pkg/domain/model/errs"
	"github.com/the-ledger/ledger/pkg/domain/types"
	"github.com/the-ledger/ledger/pkg/utils/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS assets (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL,
	category      TEXT NOT NULL,
	value         REAL NOT NULL,
	quantity      REAL NOT NULL DEFAULT 1,
	status        TEXT NOT NULL,
	purchase_date TIMESTAMP,
	created_at    TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assets_name ON assets (name);
`

func init() {
	// sqlx only knows the bindvar style for the "sqlite3" driver name.
	sqlx.BindDriver("sqlite", sqlx.DOLLAR)
}

// Repository is the sqlite-backed asset store.
type Repository struct {
	db *sqlx.DB
}

var _ interfaces.Repository = &Repository{}

// New opens (or creates) the sqlite database at path and applies the
// schema.
func New(ctx context.Context, path string) (*Repository, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database",
			goerr.T(errs.TagDatabase),
			goerr.V("path", path))
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to connect to sqlite database",
			goerr.T(errs.TagDatabase),
			goerr.V("path", path))
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, goerr.Wrap(err, "failed to apply schema", goerr.T(errs.TagDatabase))
	}

	logging.From(ctx).Debug("sqlite repository opened", "path", path)

	return &Repository{db: db}, nil
}

func (r *Repository) CreateAsset(ctx context.Context, req asset.CreateRequest) (*asset.Asset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a := asset.New(ctx, req)

	const query = `
		INSERT INTO assets (id, name, category, value, quantity, status, purchase_date, created_at)
		VALUES (:id, :name, :category, :value, :quantity, :status, :purchase_date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return nil, goerr.Wrap(err, "failed to insert asset",
			goerr.T(errs.TagDatabase),
			goerr.V("asset_id", a.ID))
	}

	logging.From(ctx).Debug("asset created", "asset_id", a.ID)
	return a, nil
}

func (r *Repository) GetAsset(ctx context.Context, id types.AssetID) (*asset.Asset, error) {
	var a asset.Asset
	err := r.db.GetContext(ctx, &a, `SELECT * FROM assets WHERE id = $1`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, goerr.New("asset not found",
			goerr.T(errs.TagNotFound),
			goerr.V("asset_id", id))
	case err != nil:
		return nil, goerr.Wrap(err, "failed to get asset",
			goerr.T(errs.TagDatabase),
			goerr.V("asset_id", id))
	}
	return &a, nil
}

func (r *Repository) ListAssets(ctx context.Context, offset, limit int) ([]*asset.Asset, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = asset.DefaultListLimit
	}

	assets := []*asset.Asset{}
	err := r.db.SelectContext(ctx, &assets,
		`SELECT * FROM assets ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list assets", goerr.T(errs.TagDatabase))
	}
	return assets, nil
}

func (r *Repository) UpdateAsset(ctx context.Context, id types.AssetID, req asset.UpdateRequest) (*asset.Asset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to begin transaction", goerr.T(errs.TagDatabase))
	}
	committed := false
	defer func() {
		if !committed {
			if err := tx.Rollback(); err != nil {
				logging.From(ctx).Warn("failed to rollback transaction", logging.ErrAttr(err))
			}
		}
	}()

	var a asset.Asset
	err = tx.GetContext(ctx, &a, `SELECT * FROM assets WHERE id = $1`, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, goerr.New("asset not found",
			goerr.T(errs.TagNotFound),
			goerr.V("asset_id", id))
	case err != nil:
		return nil, goerr.Wrap(err, "failed to get asset for update",
			goerr.T(errs.TagDatabase),
			goerr.V("asset_id", id))
	}

	req.Apply(&a)

	const query = `
		UPDATE assets
		SET name = :name, category = :category, value = :value,
			quantity = :quantity, status = :status, purchase_date = :purchase_date
		WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, &a); err != nil {
		return nil, goerr.Wrap(err, "failed to update asset",
			goerr.T(errs.TagDatabase),
			goerr.V("asset_id", id))
	}

	if err := tx.Commit(); err != nil {
		return nil, goerr.Wrap(err, "failed to commit update", goerr.T(errs.TagDatabase))
	}
	committed = true

	logging.From(ctx).Debug("asset updated", "asset_id", id)
	return &a, nil
}

func (r *Repository) DeleteAsset(ctx context.Context, id types.AssetID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return goerr.Wrap(err, "failed to delete asset",
			goerr.T(errs.TagDatabase),
			goerr.V("asset_id", id))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to check delete result", goerr.T(errs.TagDatabase))
	}
	if affected == 0 {
		return goerr.New("asset not found",
			goerr.T(errs.TagNotFound),
			goerr.V("asset_id", id))
	}

	logging.From(ctx).Debug("asset deleted", "asset_id", id)
	return nil
}

func (r *Repository) SearchAssets(ctx context.Context, query string) ([]*asset.Asset, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	assets := []*asset.Asset{}
	err := r.db.SelectContext(ctx, &assets,
		`SELECT * FROM assets
		 WHERE lower(name) LIKE $1 OR lower(category) LIKE $1
		 ORDER BY created_at, id`, pattern)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search assets",
			goerr.T(errs.TagDatabase),
			goerr.V("query", query))
	}
	return assets, nil
}

func (r *Repository) MaxValueAsset(ctx context.Context) (*asset.Asset, error) {
	return r.extremeValueAsset(ctx, `SELECT * FROM assets ORDER BY value DESC, id LIMIT 1`)
}

func (r *Repository) MinValueAsset(ctx context.Context) (*asset.Asset, error) {
	return r.extremeValueAsset(ctx, `SELECT * FROM assets ORDER BY value ASC, id LIMIT 1`)
}

func (r *Repository) extremeValueAsset(ctx context.Context, query string) (*asset.Asset, error) {
	var a asset.Asset
	err := r.db.GetContext(ctx, &a, query)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, goerr.New("no asset records found", goerr.T(errs.TagNotFound))
	case err != nil:
		return nil, goerr.Wrap(err, "failed to query asset value extremes", goerr.T(errs.TagDatabase))
	}
	return &a, nil
}

func (r *Repository) MeanAssetValue(ctx context.Context) (float64, error) {
	var mean sql.NullFloat64
	if err := r.db.GetContext(ctx, &mean, `SELECT AVG(value) FROM assets`); err != nil {
		return 0, goerr.Wrap(err, "failed to compute mean asset value", goerr.T(errs.TagDatabase))
	}

	// AVG over an empty table yields NULL, which must be reported as
	// "no records" rather than a computed zero.
	if !mean.Valid {
		return 0, goerr.New("no asset records found", goerr.T(errs.TagNotFound))
	}

	return math.Round(mean.Float64*100) / 100, nil
}

func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		return goerr.Wrap(err, "failed to close sqlite database", goerr.T(errs.TagDatabase))
	}
	return nil
}
