package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"tradeaudit/internal/audit"
	"tradeaudit/internal/audit/auditobs"
	"tradeaudit/internal/insights/groq"
	"tradeaudit/internal/insights/noop"
	"tradeaudit/internal/interfaces"
	"tradeaudit/internal/logger"
	"tradeaudit/internal/normalizer"
	"tradeaudit/internal/report"
	"tradeaudit/internal/store"
	"tradeaudit/internal/trace"
)

// initializeSystem loads the environment, then brings up logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

// buildRowSource picks the ledger source: an uploaded statement file or the
// Kite Connect tradebook API.
func buildRowSource(ctx context.Context, cfg *store.Config, inputPath string) (interfaces.RowSource, string, error) {
	switch cfg.Source {
	case "KITE":
		apiKey := os.Getenv("KITE_API_KEY")
		accessToken := os.Getenv("KITE_ACCESS_TOKEN")
		if apiKey == "" || accessToken == "" {
			return nil, "", errors.New("KITE_API_KEY and KITE_ACCESS_TOKEN must be set for source KITE")
		}
		logger.Info(ctx, "Using Kite Connect tradebook as ledger source", "exchange", cfg.Kite.Exchange)
		return normalizer.NewKiteSource(apiKey, accessToken, cfg.Kite.Exchange), "kite", nil
	default:
		if inputPath == "" {
			return nil, "", errors.New("-input is required when source is FILE")
		}
		return normalizer.NewFileSource(inputPath), inputPath, nil
	}
}

// buildInsights picks the narrative generator; analysis never depends on it.
func buildInsights(ctx context.Context, cfg *store.Config) interfaces.InsightGenerator {
	if cfg.Insights.Provider == "GROQ" {
		return groq.NewGenerator(cfg)
	}
	logger.Info(ctx, "No insights provider configured - narrative generation disabled")
	return noop.NewGenerator()
}

func run(ctx context.Context, configPath, inputPath string) error {
	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	source, sourceName, err := buildRowSource(ctx, cfg, inputPath)
	if err != nil {
		return err
	}

	rows, err := source.Rows(ctx)
	if err != nil {
		return fmt.Errorf("normalize ledger: %w", err)
	}

	auditor := auditobs.Wrap(audit.NewService())
	result, err := auditor.Analyze(ctx, rows)
	if err != nil {
		return err
	}

	if len(result.Trades) == 0 {
		if len(result.Attention) > 0 {
			logger.Warn(ctx, "No trades reconstructed - every symbol needs manual review",
				"attention", len(result.Attention))
		} else {
			logger.Warn(ctx, "No trades reconstructed from a valid ledger")
		}
	}

	journal := report.NewJournal(cfg.Journal.Dir)
	if err := journal.Append(sourceName, result); err != nil {
		logger.Warn(ctx, "Failed to append journal entry", "error", err)
	}
	if err := journal.CompressOlder(cfg.Journal.RetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old journal files", "error", err)
	}

	if cfg.Report.WriteCSV {
		if p, err := report.WriteTradesCSV(cfg.Report.Dir, result, cfg.Report.PricePlaces); err != nil {
			logger.Warn(ctx, "Failed to write trades CSV", "error", err)
		} else if p != "" {
			logger.Info(ctx, "Trades CSV written", "path", p)
		}
		if p, err := report.WriteAttentionCSV(cfg.Report.Dir, result); err != nil {
			logger.Warn(ctx, "Failed to write attention CSV", "error", err)
		} else if p != "" {
			logger.Info(ctx, "Attention CSV written", "path", p)
		}
	}
	if cfg.Report.WriteJSON {
		if p, err := report.WriteJSON(cfg.Report.Dir, result); err != nil {
			logger.Warn(ctx, "Failed to write JSON result", "error", err)
		} else {
			logger.Info(ctx, "JSON result written", "path", p)
		}
	}

	gen := buildInsights(ctx, cfg)
	if summary, err := gen.PortfolioSummary(ctx, result); err != nil {
		logger.Warn(ctx, "Insight generation unavailable", "error", err)
	} else if summary != "" {
		fmt.Println(summary)
	}

	b, _ := json.Marshal(result.Stats)
	fmt.Println(string(b))
	return nil
}
