package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/the-ledger/ledger/pkg/domain/interfaces"
	"github.com/the-ledger/ledger/pkg/domain/model/asset"
	"github.com/the-ledger/ledger/pkg/domain/model/errs"
	"github.com/the-ledger/ledger/pkg/domain/types"
)

func createAssetHandler(repo interfaces.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req asset.CreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(w, r, goerr.Wrap(err, "invalid request body", goerr.T(errs.TagInvalidRequest)))
			return
		}

		created, err := repo.CreateAsset(r.Context(), req)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, created)
	}
}

// queryInt parses an integer query parameter, keeping fallback when the
// parameter is absent. A malformed value is a client error.
func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, goerr.New("invalid query parameter",
			goerr.T(errs.TagInvalidRequest),
			goerr.V("key", key),
			goerr.V("value", raw))
	}
	return v, nil
}

func listAssetsHandler(repo interfaces.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, err := queryInt(r, "skip", 0)
		if err != nil {
			handleError(w, r, err)
			return
		}
		limit, err := queryInt(r, "limit", asset.DefaultListLimit)
		if err != nil {
			handleError(w, r, err)
			return
		}

		assets, err := repo.ListAssets(r.Context(), offset, limit)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if assets == nil {
			assets = []*asset.Asset{}
		}

		writeJSON(w, r, http.StatusOK, assets)
	}
}

func getAssetHandler(repo interfaces.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.AssetID(chi.URLParam(r, "assetID"))
		if err := id.Validate(); err != nil {
			handleError(w, r, err)
			return
		}

		found, err := repo.GetAsset(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, found)
	}
}

func updateAssetHandler(repo interfaces.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.AssetID(chi.URLParam(r, "assetID"))
		if err := id.Validate(); err != nil {
			handleError(w, r, err)
			return
		}

		var req asset.UpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handleError(w, r, goerr.Wrap(err, "invalid request body", goerr.T(errs.TagInvalidRequest)))
			return
		}

		updated, err := repo.UpdateAsset(r.Context(), id, req)
		if err != nil {
			handleError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, updated)
	}
}

func deleteAssetHandler(repo interfaces.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.AssetID(chi.URLParam(r, "assetID"))
		if err := id.Validate(); err != nil {
			handleError(w, r, err)
			return
		}

		if err := repo.DeleteAsset(r.Context(), id); err != nil {
			handleError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
