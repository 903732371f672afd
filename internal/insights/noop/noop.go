// Package noop is the insight generator used when no provider is
// configured. Every method returns empty text.
package noop

import (
	"context"

	"tradeaudit/internal/types"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) PortfolioSummary(ctx context.Context, result *types.Result) (string, error) {
	return "", nil
}

func (g *Generator) TradeInsight(ctx context.Context, trade types.Trade) (string, error) {
	return "", nil
}

func (g *Generator) PatternAdvice(ctx context.Context, findings []types.PatternFinding) (string, error) {
	return "", nil
}
