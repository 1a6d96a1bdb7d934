package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/the-ledger/ledger/pkg/domain/model/errs"
)

type AssetID string

func (x AssetID) String() string {
	return string(x)
}

func NewAssetID() AssetID {
	return AssetID(uuid.New().String())
}

func (x AssetID) Validate() error {
	if x == EmptyAssetID {
		return goerr.New("empty asset ID", goerr.T(errs.TagInvalidRequest))
	}
	if _, err := uuid.Parse(string(x)); err != nil {
		return goerr.Wrap(err, "invalid asset ID format", goerr.T(errs.TagInvalidRequest), goerr.V("id", x))
	}
	return nil
}

const (
	EmptyAssetID AssetID = ""
)
