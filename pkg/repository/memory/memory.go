package memory

import (
	"context"
	"math"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/the-ledger/ledger/pkg/domain/interfaces"
	"github.com/the-ledger/ledger/pkg/domain/model/asset"
	"github.com/the-ledger/ledger/pkg/domain/model/errs"
	"github.com/the-ledger/ledger/pkg/domain/types"
	"github.com/the-ledger/ledger/pkg/utils/logging"
)

// Repository is an in-memory asset store. It backs tests and the
// zero-setup development mode; the contract is identical to the sqlite
// implementation.
type Repository struct {
	mu     sync.RWMutex
	assets map[types.AssetID]*asset.Asset
	order  []types.AssetID
}

var _ interfaces.Repository = &Repository{}

func New() *Repository {
	return &Repository{
		assets: make(map[types.AssetID]*asset.Asset),
	}
}

func (r *Repository) CreateAsset(ctx context.Context, req asset.CreateRequest) (*asset.Asset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a := asset.New(ctx, req)
	r.assets[a.ID] = a
	r.order = append(r.order, a.ID)

	logging.From(ctx).Debug("asset created", "asset_id", a.ID)

	// Return a copy to prevent external modification
	cp := *a
	return &cp, nil
}

func (r *Repository) GetAsset(ctx context.Context, id types.AssetID) (*asset.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assets[id]
	if !ok {
		return nil, goerr.New("asset not found",
			goerr.T(errs.TagNotFound),
			goerr.V("asset_id", id))
	}

	cp := *a
	return &cp, nil
}

func (r *Repository) ListAssets(ctx context.Context, offset, limit int) ([]*asset.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = asset.DefaultListLimit
	}

	if offset >= len(r.order) {
		return []*asset.Asset{}, nil
	}

	end := offset + limit
	if end > len(r.order) {
		end = len(r.order)
	}

	assets := make([]*asset.Asset, 0, end-offset)
	for _, id := range r.order[offset:end] {
		cp := *r.assets[id]
		assets = append(assets, &cp)
	}
	return assets, nil
}

func (r *Repository) UpdateAsset(ctx context.Context, id types.AssetID, req asset.UpdateRequest) (*asset.Asset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.assets[id]
	if !ok {
		return nil, goerr.New("asset not found",
			goerr.T(errs.TagNotFound),
			goerr.V("asset_id", id))
	}

	cp := *a
	req.Apply(&cp)
	r.assets[id] = &cp

	logging.From(ctx).Debug("asset updated", "asset_id", id)

	result := cp
	return &result, nil
}

func (r *Repository) DeleteAsset(ctx context.Context, id types.AssetID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assets[id]; !ok {
		return goerr.New("asset not found",
			goerr.T(errs.TagNotFound),
			goerr.V("asset_id", id))
	}

	delete(r.assets, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	logging.From(ctx).Debug("asset deleted", "asset_id", id)
	return nil
}

func (r *Repository) SearchAssets(ctx context.Context, query string) ([]*asset.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	results := []*asset.Asset{}
	for _, id := range r.order {
		a := r.assets[id]
		if strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.Category), q) {
			cp := *a
			results = append(results, &cp)
		}
	}
	return results, nil
}

func (r *Repository) MaxValueAsset(ctx context.Context) (*asset.Asset, error) {
	return r.extremeValueAsset(func(candidate, best float64) bool {
		return candidate > best
	})
}

func (r *Repository) MinValueAsset(ctx context.Context) (*asset.Asset, error) {
	return r.extremeValueAsset(func(candidate, best float64) bool {
		return candidate < best
	})
}

func (r *Repository) extremeValueAsset(better func(candidate, best float64) bool) (*asset.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *asset.Asset
	for _, id := range r.order {
		a := r.assets[id]
		if found == nil || better(a.Value, found.Value) {
			found = a
		}
	}
	if found == nil {
		return nil, goerr.New("no asset records found", goerr.T(errs.TagNotFound))
	}

	cp := *found
	return &cp, nil
}

func (r *Repository) MeanAssetValue(ctx context.Context) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.assets) == 0 {
		return 0, goerr.New("no asset records found", goerr.T(errs.TagNotFound))
	}

	var sum float64
	for _, a := range r.assets {
		sum += a.Value
	}
	mean := sum / float64(len(r.assets))
	return math.Round(mean*100) / 100, nil
}

func (r *Repository) Close() error {
	return nil
}
