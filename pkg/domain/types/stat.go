package types

import "github.com/m-mizutani/goerr/v2"

// StatMetric is an aggregation metric over asset values.
type StatMetric string

const (
	StatMax  StatMetric = "max"
	StatMin  StatMetric = "min"
	StatMean StatMetric = "mean"
)

func (x StatMetric) String() string {
	return string(x)
}

func (x StatMetric) Validate() error {
	switch x {
	case StatMax, StatMin, StatMean:
		return nil
	}
	return goerr.New("invalid stat metric", goerr.V("metric", x))
}
