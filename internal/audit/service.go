// Package audit wires the analysis pipeline: reconstruct, score, aggregate,
// detect patterns. One Service holds the current session's result, which is
// fully replaced on every analysis run.
package audit

import (
	"context"
	"time"

	"tradeaudit/internal/discipline"
	"tradeaudit/internal/interfaces"
	"tradeaudit/internal/logger"
	"tradeaudit/internal/patterns"
	"tradeaudit/internal/reconstruct"
	"tradeaudit/internal/types"
)

type Service struct {
	scorer   *discipline.Scorer
	detector *patterns.Detector
	current  *types.Result
}

var _ interfaces.Auditor = (*Service)(nil)

func NewService() *Service {
	return &Service{
		scorer:   discipline.NewScorer(),
		detector: patterns.NewDetector(),
	}
}

// Analyze runs the full batch pipeline over one normalized ledger and
// replaces the current result. An error means the ledger held no usable
// rows; a valid ledger that matches nothing yields an empty trade set with
// attention items to direct the user to.
func (s *Service) Analyze(ctx context.Context, rows []types.ExecutionRow) (*types.Result, error) {
	timer := logger.StartOperation(ctx, "audit.Analyze", "rows", len(rows))
	ctx = timer.GetContext()

	trades, attention, err := reconstruct.Reconstruct(ctx, rows)
	if err != nil {
		timer.EndWithError(err)
		return nil, err
	}

	trades = s.scorer.Score(trades)
	stats := discipline.Aggregate(trades)
	findings := s.detector.Detect(ctx, trades)

	result := &types.Result{
		Trades:      trades,
		Attention:   attention,
		Stats:       stats,
		Findings:    findings,
		SourceRows:  len(rows),
		GeneratedAt: time.Now(),
	}
	s.current = result

	timer.End(
		"trades", len(trades),
		"attention", len(attention),
		"findings", len(findings),
	)
	return result, nil
}

// Current returns the result of the last analysis, or nil before the first.
func (s *Service) Current() *types.Result {
	return s.current
}
