package interfaces

import (
	"context"

	"tradeaudit/internal/types"
)

type Auditor interface {
	Analyze(ctx context.Context, rows []types.ExecutionRow) (*types.Result, error)
	Current() *types.Result
}
