package interfaces

import (
	"context"

	"github.com/the-ledger/ledger/pkg/domain/model/asset"
	"github.com/the-ledger/ledger/pkg/domain/types"
)

// Repository is the asset store. Absent records are reported with an
// errs.TagNotFound error, storage faults with errs.TagDatabase; callers
// rely on the tags to pick a transport status.
type Repository interface {
	CreateAsset(ctx context.Context, req asset.CreateRequest) (*asset.Asset, error)
	GetAsset(ctx context.Context, id types.AssetID) (*asset.Asset, error)
	ListAssets(ctx context.Context, offset, limit int) ([]*asset.Asset, error)
	UpdateAsset(ctx context.Context, id types.AssetID, req asset.UpdateRequest) (*asset.Asset, error)
	DeleteAsset(ctx context.Context, id types.AssetID) error

	// SearchAssets matches name or category by case-insensitive substring.
	SearchAssets(ctx context.Context, query string) ([]*asset.Asset, error)

	MaxValueAsset(ctx context.Context) (*asset.Asset, error)
	MinValueAsset(ctx context.Context) (*asset.Asset, error)

	// MeanAssetValue returns the mean of all asset values rounded to two
	// decimals. An empty store yields a TagNotFound error, never zero.
	MeanAssetValue(ctx context.Context) (float64, error)

	Close() error
}
