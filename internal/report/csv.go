// Package report writes analysis results to disk: CSV and JSON exports for
// the user, and a JSONL journal of analysis runs with gzip retention.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"tradeaudit/internal/types"
)

var ist = time.FixedZone("IST", 19800)

func reportPath(dir, kind string, t time.Time) string {
	d := t.In(ist).Format("20060102")
	return filepath.Join(dir, fmt.Sprintf("tradeaudit_%s_%s.csv", kind, d))
}

// WriteTradesCSV exports the reconstructed trade list with a TOTAL footer
// row. Returns the path written, or empty when there are no trades.
func WriteTradesCSV(dir string, result *types.Result, pricePlaces int32) (string, error) {
	if len(result.Trades) == 0 {
		return "", nil
	}

	outPath := reportPath(dir, "report", result.GeneratedAt)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	headers := []string{
		"symbol", "direction", "quantity", "entry_time", "exit_time",
		"entry_price", "exit_price", "gross_pnl",
		"brokerage", "stt", "gst", "misc", "total_charges", "net_pnl",
		"holding_minutes", "classification", "return_pct",
		"discipline_score", "grade", "win",
	}
	if err := w.Write(headers); err != nil {
		return "", err
	}

	for _, t := range result.Trades {
		rec := []string{
			t.Symbol,
			t.Direction,
			t.Quantity.String(),
			formatTime(t.EntryTime),
			formatTime(t.ExitTime),
			t.EntryPrice.StringFixed(pricePlaces),
			t.ExitPrice.StringFixed(pricePlaces),
			t.GrossPnL.StringFixed(pricePlaces),
			t.Charges.Brokerage.StringFixed(pricePlaces),
			t.Charges.STT.StringFixed(pricePlaces),
			t.Charges.GST.StringFixed(pricePlaces),
			t.Charges.Misc.StringFixed(pricePlaces),
			t.Charges.Total.StringFixed(pricePlaces),
			t.NetPnL.StringFixed(pricePlaces),
			strconv.FormatInt(t.HoldingMinutes, 10),
			t.Classification,
			fmt.Sprintf("%.2f", t.ReturnPct),
			strconv.Itoa(t.DisciplineScore),
			t.Grade,
			strconv.FormatBool(t.Win),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}

	stats := result.Stats
	footer := make([]string, len(headers))
	footer[0] = "TOTAL"
	footer[7] = stats.GrossPnL.StringFixed(pricePlaces)
	footer[12] = stats.TotalCharges.StringFixed(pricePlaces)
	footer[13] = stats.NetPnL.StringFixed(pricePlaces)
	if err := w.Write(footer); err != nil {
		return "", err
	}

	return outPath, nil
}

// WriteAttentionCSV exports the symbols excluded for quantity imbalance.
// Returns the path written, or empty when nothing needs attention.
func WriteAttentionCSV(dir string, result *types.Result) (string, error) {
	if len(result.Attention) == 0 {
		return "", nil
	}

	outPath := reportPath(dir, "attention", result.GeneratedAt)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"symbol", "buy_qty", "sell_qty", "difference", "inferred_status", "rows"}); err != nil {
		return "", err
	}
	for _, item := range result.Attention {
		rec := []string{
			item.Symbol,
			item.BuyQty.String(),
			item.SellQty.String(),
			item.Difference.String(),
			item.InferredStatus,
			strconv.Itoa(len(item.Rows)),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}

	return outPath, nil
}

// WriteJSON dumps the full result, including findings, as indented JSON.
func WriteJSON(dir string, result *types.Result) (string, error) {
	d := result.GeneratedAt.In(ist).Format("20060102")
	outPath := filepath.Join(dir, fmt.Sprintf("tradeaudit_result_%s.json", d))
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}

	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outPath, b, 0o644); err != nil {
		return "", err
	}
	return outPath, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}
