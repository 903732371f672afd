package interfaces

import (
	"context"

	"tradeaudit/internal/types"
)

// RowSource produces a canonical execution-row ledger for one analysis run,
// whether from an uploaded statement file or a broker API.
type RowSource interface {
	Rows(ctx context.Context) ([]types.ExecutionRow, error)
}
