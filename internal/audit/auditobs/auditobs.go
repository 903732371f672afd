package auditobs

import (
	"context"
	"time"

	"tradeaudit/internal/interfaces"
	"tradeaudit/internal/logger"
	"tradeaudit/internal/trace"
	"tradeaudit/internal/types"
)

type observableAuditor struct {
	auditor interfaces.Auditor
}

var _ interfaces.Auditor = (*observableAuditor)(nil)

func Wrap(a interfaces.Auditor) interfaces.Auditor {
	return &observableAuditor{auditor: a}
}

func (oa *observableAuditor) Analyze(ctx context.Context, rows []types.ExecutionRow) (*types.Result, error) {
	ctx, span := trace.StartSpan(ctx, "audit.Analyze")
	defer span.End()

	start := time.Now()

	logger.InfoSkip(ctx, 1, "Starting ledger analysis",
		"rows", len(rows),
	)

	result, err := oa.auditor.Analyze(ctx, rows)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Ledger analysis failed", err,
			"rows", len(rows),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Ledger analysis completed",
		"rows", len(rows),
		"trades", len(result.Trades),
		"attention", len(result.Attention),
		"findings", len(result.Findings),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}

func (oa *observableAuditor) Current() *types.Result {
	return oa.auditor.Current()
}
