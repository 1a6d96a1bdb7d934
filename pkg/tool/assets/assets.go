package assets

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/the-ledger/ledger/pkg/domain/interfaces"
	"github.com/the-ledger/ledger/pkg/domain/model/errs"
	"github.com/the-ledger/ledger/pkg/domain/types"
	"github.com/the-ledger/ledger/pkg/utils/logging"
)

const (
	toolSearch = "search_assets_by_name_or_category"
	toolList   = "get_all_assets"
	toolStats  = "get_asset_value_statistics"
)

// ToolSet exposes the asset store to a language model as three typed
// query tools. Recoverable problems (an out-of-enum metric, an empty
// store, a storage fault) are reported as structured payloads so the
// calling agent can recover conversationally instead of aborting the
// reasoning loop.
type ToolSet struct {
	repo interfaces.Repository
}

var _ gollem.ToolSet = &ToolSet{}

func New(repo interfaces.Repository) *ToolSet {
	return &ToolSet{repo: repo}
}

func (x *ToolSet) Specs(_ context.Context) ([]gollem.ToolSpec, error) {
	return []gollem.ToolSpec{
		{
			Name:        toolSearch,
			Description: "Search the asset database for partial matches in asset name or category. Example: query=\"macbook\" finds assets whose name or category contains 'macbook' (case-insensitive).",
			Parameters: map[string]*gollem.Parameter{
				"query": {
					Type:        gollem.TypeString,
					Description: "Substring to match against asset names and categories",
					Required:    true,
				},
			},
		},
		{
			Name:        toolList,
			Description: "Retrieve all stored assets. Use when the user did not name a specific asset or category and the answer must be derived from the full ledger.",
		},
		{
			Name:        toolStats,
			Description: "Compute statistics over asset values. metric=max returns the most valuable asset, metric=min the least valuable asset, metric=mean the average asset value.",
			Parameters: map[string]*gollem.Parameter{
				"metric": {
					Type:        gollem.TypeString,
					Description: "Aggregation to compute: one of max, min, mean",
					Enum:        []string{"max", "min", "mean"},
					Required:    true,
				},
			},
		},
	}, nil
}

func (x *ToolSet) Run(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	logger := logging.From(ctx)

	switch name {
	case toolSearch:
		query, ok := args["query"].(string)
		if !ok || query == "" {
			return nil, goerr.New("query parameter is required", goerr.V("args", args))
		}
		return x.search(ctx, query), nil

	case toolList:
		return x.listAll(ctx), nil

	case toolStats:
		metric, ok := args["metric"].(string)
		if !ok || metric == "" {
			return nil, goerr.New("metric parameter is required", goerr.V("args", args))
		}
		return x.statistics(ctx, metric), nil

	default:
		logger.Warn("unknown asset tool requested", "name", name)
		return nil, goerr.New("unknown tool", goerr.V("name", name))
	}
}

func (x *ToolSet) search(ctx context.Context, query string) map[string]any {
	logger := logging.From(ctx)

	results, err := x.repo.SearchAssets(ctx, query)
	if err != nil {
		errs.Handle(ctx, goerr.Wrap(err, "asset search tool failed", goerr.V("query", query)))
		return map[string]any{
			"error": "storage error, could not retrieve any data",
		}
	}

	if len(results) == 0 {
		logger.Info("asset tool invoked", "tool", toolSearch, "query", query, "outcome", "no_data")
		return map[string]any{
			"message": "no assets found",
		}
	}

	logger.Info("asset tool invoked", "tool", toolSearch, "query", query, "outcome", "ok", "count", len(results))
	return map[string]any{
		"assets": results,
	}
}

func (x *ToolSet) listAll(ctx context.Context) map[string]any {
	logger := logging.From(ctx)

	results, err := x.repo.ListAssets(ctx, 0, 0)
	if err != nil {
		errs.Handle(ctx, goerr.Wrap(err, "asset list tool failed"))
		return map[string]any{
			"error": "storage error, could not retrieve any data",
		}
	}

	if len(results) == 0 {
		logger.Info("asset tool invoked", "tool", toolList, "outcome", "no_data")
		return map[string]any{
			"message": "no assets found",
		}
	}

	logger.Info("asset tool invoked", "tool", toolList, "outcome", "ok", "count", len(results))
	return map[string]any{
		"assets": results,
	}
}

func (x *ToolSet) statistics(ctx context.Context, rawMetric string) map[string]any {
	logger := logging.From(ctx)

	// Models occasionally hallucinate out-of-enum metrics; report them
	// back as data so the agent can rephrase instead of crashing.
	metric := types.StatMetric(strings.ToLower(rawMetric))
	if err := metric.Validate(); err != nil {
		logger.Warn("invalid statistics metric requested", "metric", rawMetric)
		return map[string]any{
			"error": "invalid metric, allowed values are: max, min, mean",
		}
	}

	var result any
	var err error
	switch metric {
	case types.StatMax:
		result, err = x.repo.MaxValueAsset(ctx)
	case types.StatMin:
		result, err = x.repo.MinValueAsset(ctx)
	case types.StatMean:
		result, err = x.repo.MeanAssetValue(ctx)
	}

	switch {
	case goerr.HasTag(err, errs.TagNotFound):
		logger.Info("asset tool invoked", "tool", toolStats, "metric", metric, "outcome", "no_data")
		return map[string]any{
			"error": "no asset records found",
		}
	case err != nil:
		errs.Handle(ctx, goerr.Wrap(err, "asset statistics tool failed", goerr.V("metric", metric)))
		return map[string]any{
			"error": "storage error while retrieving asset statistics",
		}
	}

	logger.Info("asset tool invoked", "tool", toolStats, "metric", metric, "outcome", "ok")
	return map[string]any{
		"metric": metric.String(),
		"result": result,
	}
}
