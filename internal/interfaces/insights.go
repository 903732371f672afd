package interfaces

import (
	"context"

	"tradeaudit/internal/types"
)

// InsightGenerator produces narrative commentary over an analysis result.
// Implementations must degrade gracefully; insight text is advisory and
// never blocks the pipeline.
type InsightGenerator interface {
	PortfolioSummary(ctx context.Context, result *types.Result) (string, error)
	TradeInsight(ctx context.Context, trade types.Trade) (string, error)
	PatternAdvice(ctx context.Context, findings []types.PatternFinding) (string, error)
}
