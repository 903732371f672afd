// Package groq generates AI narrative commentary for analysis results via
// Groq's OpenAI-compatible chat-completions endpoint. The generator is an
// explicit dependency constructed by the caller; there is no process-wide
// instance.
package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"tradeaudit/internal/store"
	"tradeaudit/internal/trace"
	"tradeaudit/internal/types"
)

const endpoint = "https://api.groq.com/openai/v1/chat/completions"

type Generator struct {
	cfg *store.Config
}

func NewGenerator(cfg *store.Config) *Generator {
	return &Generator{cfg: cfg}
}

// PortfolioSummary produces a short overall assessment of the result set.
func (g *Generator) PortfolioSummary(ctx context.Context, result *types.Result) (string, error) {
	stats := result.Stats
	prompt := fmt.Sprintf(`Analyze this trading portfolio:

Total Trades: %d
Win Rate: %.1f%%
Net P&L: Rs %s
Profit Factor: %.2f
Avg Win: Rs %s
Avg Loss: Rs %s

Provide:
1. Overall assessment (1-2 sentences)
2. Biggest strength (1 sentence)
3. Biggest weakness (1 sentence)
4. Top priority improvement (1 sentence)

Total: Under 100 words. Be direct.`,
		stats.TotalTrades, stats.WinRate, stats.NetPnL.StringFixed(0),
		stats.ProfitFactor, stats.AvgWin.StringFixed(0), stats.AvgLoss.StringFixed(0))

	return g.chat(ctx, "You are a professional trading coach.", prompt)
}

// TradeInsight produces a what-went-right/wrong note for a single trade.
func (g *Generator) TradeInsight(ctx context.Context, trade types.Trade) (string, error) {
	verdict := "LOSS"
	if trade.Win {
		verdict = "WIN"
	}
	prompt := fmt.Sprintf(`Analyze this trade:

Symbol: %s
Direction: %s
Entry: Rs %s at %s
Exit: Rs %s at %s
Result: %s Rs %s (%.1f%%)
Holding: %d minutes

Provide: What went right/wrong + specific improvement. Under 80 words.`,
		trade.Symbol, trade.Direction,
		trade.EntryPrice.StringFixed(2), trade.EntryTime.Format("2006-01-02 15:04"),
		trade.ExitPrice.StringFixed(2), trade.ExitTime.Format("2006-01-02 15:04"),
		verdict, trade.NetPnL.StringFixed(0), trade.ReturnPct, trade.HoldingMinutes)

	return g.chat(ctx, "You are an expert trading analyst. Analyze trades concisely and provide actionable insights. Keep responses under 100 words.", prompt)
}

// PatternAdvice turns detected behavioral patterns into concrete advice.
func (g *Generator) PatternAdvice(ctx context.Context, findings []types.PatternFinding) (string, error) {
	if len(findings) == 0 {
		return "", nil
	}
	fb, _ := json.MarshalIndent(findings, "", "  ")
	prompt := fmt.Sprintf(`A trader shows these behavioral patterns:

%s

Provide 3 specific, actionable recommendations to improve discipline.
Keep response under 150 words. Be direct and specific.`, string(fb))

	return g.chat(ctx, "You are a trading psychology expert.", prompt)
}

func (g *Generator) chat(ctx context.Context, system, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "groq-api-call")
	defer span.End()

	apiKey := os.Getenv(g.cfg.Insights.APIKeyEnv)
	if apiKey == "" {
		return "", fmt.Errorf("%s missing", g.cfg.Insights.APIKeyEnv)
	}

	body := map[string]any{
		"model":       g.cfg.Insights.Model,
		"messages":    []map[string]string{{"role": "system", "content": system}, {"role": "user", "content": prompt}},
		"temperature": g.cfg.Insights.Temperature,
		"max_tokens":  g.cfg.Insights.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("groq http %d", resp.StatusCode)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 {
		return "", errors.New("no choices")
	}

	return strings.TrimSpace(r.Choices[0].Message.Content), nil
}
