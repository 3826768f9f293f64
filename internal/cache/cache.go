// Package cache keeps recently priced plans so identical requests skip
// the calculator.
package cache

import (
	"context"
	"encoding/json"

	"github.com/bandhitl/bank-loan-optimizer/internal/loan"
)

// PlanCache stores calculation results under request-derived keys. A Get
// miss and a Get failure look the same to callers; caching is advisory.
type PlanCache interface {
	Get(ctx context.Context, key string) (loan.Result, bool)
	Set(ctx context.Context, key string, res loan.Result) error
}

func encodeResult(res loan.Result) ([]byte, error) {
	return json.Marshal(res)
}

func decodeResult(b []byte) (loan.Result, error) {
	var res loan.Result
	if err := json.Unmarshal(b, &res); err != nil {
		return loan.Result{}, err
	}
	return res, nil
}
