package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/the-ledger/ledger/pkg/domain/model/asset"
	"github.com/the-ledger/ledger/pkg/domain/model/errs"
	"github.com/the-ledger/ledger/pkg/repository/memory"
)

func ptr[T any](v T) *T {
	return &v
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	purchased := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	created, err := repo.CreateAsset(ctx, asset.CreateRequest{
		Name:         "MacBook Pro",
		Category:     "Electronics",
		Value:        2000,
		Quantity:     ptr(1.0),
		Status:       "Active",
		PurchaseDate: &purchased,
	})
	gt.NoError(t, err)
	gt.NotEqual(t, created.ID, "")
	gt.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetAsset(ctx, created.ID)
	gt.NoError(t, err)
	gt.Value(t, got.Name).Equal("MacBook Pro")
	gt.Value(t, got.Category).Equal("Electronics")
	gt.Value(t, got.Value).Equal(2000.0)
	gt.Value(t, got.Quantity).Equal(1.0)
	gt.Value(t, got.Status).Equal("Active")
	gt.NotNil(t, got.PurchaseDate)
	gt.True(t, got.PurchaseDate.Equal(purchased))
}

func TestCreateDefaultQuantity(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	created, err := repo.CreateAsset(ctx, asset.CreateRequest{
		Name:     "Gold Coin",
		Category: "Commodities",
		Value:    350,
		Status:   "Active",
	})
	gt.NoError(t, err)
	gt.Value(t, created.Quantity).Equal(asset.DefaultQuantity)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	cases := []struct {
		name string
		req  asset.CreateRequest
	}{
		{
			name: "missing name",
			req:  asset.CreateRequest{Category: "X", Value: 1, Status: "Active"},
		},
		{
			name: "zero value",
			req:  asset.CreateRequest{Name: "A", Category: "X", Value: 0, Status: "Active"},
		},
		{
			name: "negative value",
			req:  asset.CreateRequest{Name: "A", Category: "X", Value: -10, Status: "Active"},
		},
		{
			name: "negative quantity",
			req:  asset.CreateRequest{Name: "A", Category: "X", Value: 10, Quantity: ptr(-1.0), Status: "Active"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.CreateAsset(ctx, tc.req)
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, errs.TagValidation))
		})
	}
}

func TestPartialUpdate(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	created, err := repo.CreateAsset(ctx, asset.CreateRequest{
		Name:     "Office Chair",
		Category: "Furniture",
		Value:    300,
		Quantity: ptr(2.0),
		Status:   "Active",
	})
	gt.NoError(t, err)

	updated, err := repo.UpdateAsset(ctx, created.ID, asset.UpdateRequest{
		Value: ptr(250.0),
	})
	gt.NoError(t, err)

	// Only the mentioned field changes
	gt.Value(t, updated.Value).Equal(250.0)
	gt.Value(t, updated.Name).Equal("Office Chair")
	gt.Value(t, updated.Category).Equal("Furniture")
	gt.Value(t, updated.Quantity).Equal(2.0)
	gt.Value(t, updated.Status).Equal("Active")
	gt.Value(t, updated.ID).Equal(created.ID)
	gt.True(t, updated.CreatedAt.Equal(created.CreatedAt))
}

func TestUpdateNotFound(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	_, err := repo.UpdateAsset(ctx, "2b1e9f3a-4c1d-4e8a-9f0b-000000000000", asset.UpdateRequest{
		Value: ptr(100.0),
	})
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagNotFound))
}

func TestDeleteThenGet(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	created, err := repo.CreateAsset(ctx, asset.CreateRequest{
		Name:     "Bicycle",
		Category: "Vehicles",
		Value:    800,
		Status:   "Active",
	})
	gt.NoError(t, err)

	gt.NoError(t, repo.DeleteAsset(ctx, created.ID))

	_, err = repo.GetAsset(ctx, created.ID)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagNotFound))

	err = repo.DeleteAsset(ctx, created.ID)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, errs.TagNotFound))
}

func TestSearchCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	_, err := repo.CreateAsset(ctx, asset.CreateRequest{
		Name: "MacBook Pro", Category: "Electronics", Value: 2000, Status: "Active",
	})
	gt.NoError(t, err)
	_, err = repo.CreateAsset(ctx, asset.CreateRequest{
		Name: "Desk Lamp", Category: "Furniture", Value: 40, Status: "Active",
	})
	gt.NoError(t, err)

	byName, err := repo.SearchAssets(ctx, "macbook")
	gt.NoError(t, err)
	gt.A(t, byName).Length(1)
	gt.Value(t, byName[0].Name).Equal("MacBook Pro")

	byCategory, err := repo.SearchAssets(ctx, "ELECTRO")
	gt.NoError(t, err)
	gt.A(t, byCategory).Length(1)

	none, err := repo.SearchAssets(ctx, "yacht")
	gt.NoError(t, err)
	gt.A(t, none).Length(0)
}

func TestListPaging(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	names := []string{"a", "b", "c", "d", "e"}
	for _, name := range names {
		_, err := repo.CreateAsset(ctx, asset.CreateRequest{
			Name: name, Category: "test", Value: 1, Status: "Active",
		})
		gt.NoError(t, err)
	}

	page, err := repo.ListAssets(ctx, 1, 2)
	gt.NoError(t, err)
	gt.A(t, page).Length(2)
	gt.Value(t, page[0].Name).Equal("b")
	gt.Value(t, page[1].Name).Equal("c")

	tail, err := repo.ListAssets(ctx, 4, 10)
	gt.NoError(t, err)
	gt.A(t, tail).Length(1)

	empty, err := repo.ListAssets(ctx, 100, 10)
	gt.NoError(t, err)
	gt.A(t, empty).Length(0)
}

func TestValueStatistics(t *testing.T) {
	ctx := context.Background()
	repo := memory.New()

	t.Run("mean on empty store is no-data, not zero", func(t *testing.T) {
		_, err := repo.MeanAssetValue(ctx)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	})

	t.Run("max and min on empty store", func(t *testing.T) {
		_, err := repo.MaxValueAsset(ctx)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))

		_, err = repo.MinValueAsset(ctx)
		gt.Error(t, err)
		gt.True(t, goerr.HasTag(err, errs.TagNotFound))
	})

	for _, v := range []float64{100, 200, 50} {
		_, err := repo.CreateAsset(ctx, asset.CreateRequest{
			Name: "asset", Category: "test", Value: v, Status: "Active",
		})
		gt.NoError(t, err)
	}

	t.Run("max", func(t *testing.T) {
		a, err := repo.MaxValueAsset(ctx)
		gt.NoError(t, err)
		gt.Value(t, a.Value).Equal(200.0)
	})

	t.Run("min", func(t *testing.T) {
		a, err := repo.MinValueAsset(ctx)
		gt.NoError(t, err)
		gt.Value(t, a.Value).Equal(50.0)
	})

	t.Run("mean is rounded to two decimals", func(t *testing.T) {
		mean, err := repo.MeanAssetValue(ctx)
		gt.NoError(t, err)
		gt.Value(t, mean).Equal(116.67)
	})
}
