package report

import (
	"bufio"
	"compress/gzip"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"tradeaudit/internal/types"
)

func sampleResult() *types.Result {
	gen := time.Date(2025, 4, 7, 16, 0, 0, 0, ist)
	return &types.Result{
		Trades: []types.Trade{
			{
				Symbol:          "RELIANCE",
				Direction:       types.DirectionLong,
				Quantity:        decimal.NewFromInt(100),
				EntryPrice:      decimal.NewFromFloat(1250.5),
				ExitPrice:       decimal.NewFromFloat(1260),
				EntryTime:       gen.Add(-6 * time.Hour),
				ExitTime:        gen.Add(-1 * time.Hour),
				HoldingMinutes:  300,
				GrossPnL:        decimal.NewFromInt(950),
				Charges:         types.Charges{Total: decimal.NewFromInt(76)},
				NetPnL:          decimal.NewFromInt(874),
				Classification:  types.ClassIntraday,
				DisciplineScore: 88,
				Grade:           "A",
				Win:             true,
				ReturnPct:       0.7,
			},
			{
				Symbol:          "INFY",
				Direction:       types.DirectionShort,
				Quantity:        decimal.NewFromInt(50),
				GrossPnL:        decimal.NewFromInt(-200),
				Charges:         types.Charges{Total: decimal.NewFromInt(40)},
				NetPnL:          decimal.NewFromInt(-240),
				Classification:  types.ClassDelivery,
				DisciplineScore: 55,
				Grade:           "D",
			},
		},
		Attention: []types.AttentionItem{
			{
				Symbol:         "TCS",
				BuyQty:         decimal.NewFromInt(30),
				SellQty:        decimal.NewFromInt(10),
				Difference:     decimal.NewFromInt(20),
				InferredStatus: types.DirectionLong,
				Rows:           make([]types.ExecutionRow, 2),
			},
		},
		Stats: types.PortfolioStats{
			TotalTrades:  2,
			GrossPnL:     decimal.NewFromInt(750),
			TotalCharges: decimal.NewFromInt(116),
			NetPnL:       decimal.NewFromInt(634),
		},
		SourceRows:  5,
		GeneratedAt: gen,
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return recs
}

func TestWriteTradesCSV(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteTradesCSV(dir, sampleResult(), 2)
	if err != nil {
		t.Fatalf("WriteTradesCSV failed: %v", err)
	}
	if filepath.Base(path) != "tradeaudit_report_20250407.csv" {
		t.Errorf("Unexpected report filename %s", filepath.Base(path))
	}

	recs := readCSV(t, path)
	// header + 2 trades + TOTAL footer
	if len(recs) != 4 {
		t.Fatalf("Expected 4 records, got %d", len(recs))
	}
	if recs[0][0] != "symbol" || recs[0][len(recs[0])-1] != "win" {
		t.Errorf("Unexpected header %v", recs[0])
	}
	if recs[1][0] != "RELIANCE" || recs[1][5] != "1250.50" {
		t.Errorf("Unexpected first trade row %v", recs[1])
	}
	if recs[2][3] != "" {
		t.Errorf("Zero entry time must render empty, got %q", recs[2][3])
	}

	footer := recs[3]
	if footer[0] != "TOTAL" {
		t.Errorf("Expected TOTAL footer, got %q", footer[0])
	}
	if footer[7] != "750.00" {
		t.Errorf("Expected footer gross 750.00, got %q", footer[7])
	}
	if footer[12] != "116.00" {
		t.Errorf("Expected footer charges 116.00, got %q", footer[12])
	}
	if footer[13] != "634.00" {
		t.Errorf("Expected footer net 634.00, got %q", footer[13])
	}
}

func TestWriteTradesCSVNoTrades(t *testing.T) {
	result := sampleResult()
	result.Trades = nil

	path, err := WriteTradesCSV(t.TempDir(), result, 2)
	if err != nil {
		t.Fatalf("WriteTradesCSV failed: %v", err)
	}
	if path != "" {
		t.Errorf("Expected no file for an empty trade set, got %s", path)
	}
}

func TestWriteAttentionCSV(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteAttentionCSV(dir, sampleResult())
	if err != nil {
		t.Fatalf("WriteAttentionCSV failed: %v", err)
	}
	if filepath.Base(path) != "tradeaudit_attention_20250407.csv" {
		t.Errorf("Unexpected attention filename %s", filepath.Base(path))
	}

	recs := readCSV(t, path)
	if len(recs) != 2 {
		t.Fatalf("Expected header + 1 item, got %d records", len(recs))
	}
	want := []string{"TCS", "30", "10", "20", types.DirectionLong, "2"}
	for i, v := range want {
		if recs[1][i] != v {
			t.Errorf("Attention column %d: got %q, want %q", i, recs[1][i], v)
		}
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteJSON(dir, sampleResult())
	if err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if filepath.Base(path) != "tradeaudit_result_20250407.json" {
		t.Errorf("Unexpected JSON filename %s", filepath.Base(path))
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded types.Result
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Exported JSON must round-trip: %v", err)
	}
	if len(decoded.Trades) != 2 || decoded.SourceRows != 5 {
		t.Errorf("Decoded result does not match: %d trades, %d rows", len(decoded.Trades), decoded.SourceRows)
	}
}

func TestJournalAppend(t *testing.T) {
	dir := t.TempDir()
	j := NewJournal(dir)

	if err := j.Append("tradebook.csv", sampleResult()); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := j.Append("tradebook.csv", sampleResult()); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	p := j.dailyFilepath(time.Now())
	f, err := os.Open(p)
	if err != nil {
		t.Fatalf("Expected journal file %s: %v", p, err)
	}
	defer f.Close()

	lines := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e JournalEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("Journal line %d is not JSON: %v", lines+1, err)
		}
		if e.Source != "tradebook.csv" || e.Trades != 2 || e.Rows != 5 {
			t.Errorf("Unexpected journal entry %+v", e)
		}
		if e.NetPnL != "634.00" {
			t.Errorf("Expected net P&L 634.00, got %s", e.NetPnL)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("Expected 2 journal lines, got %d", lines)
	}
}

func TestJournalCompressOlder(t *testing.T) {
	dir := t.TempDir()
	j := NewJournal(dir)

	old := filepath.Join(dir, "2025-01-01.txt")
	if err := os.WriteFile(old, []byte("{\"time\":\"old\"}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().AddDate(0, 0, -10)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	fresh := filepath.Join(dir, "2025-04-07.txt")
	if err := os.WriteFile(fresh, []byte("{\"time\":\"new\"}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := j.CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("Old journal file must be removed after compression")
	}
	gzPath := old + ".gz"
	gf, err := os.Open(gzPath)
	if err != nil {
		t.Fatalf("Expected compressed journal %s: %v", gzPath, err)
	}
	defer gf.Close()
	gr, err := gzip.NewReader(gf)
	if err != nil {
		t.Fatalf("Compressed journal is not gzip: %v", err)
	}
	content, err := io.ReadAll(gr)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), "old") {
		t.Errorf("Compressed content mismatch: %q", content)
	}

	if _, err := os.Stat(fresh); err != nil {
		t.Error("Journal files inside the retention window must stay untouched")
	}
}

func TestCompressOlderDisabled(t *testing.T) {
	dir := t.TempDir()
	j := NewJournal(dir)

	old := filepath.Join(dir, "2025-01-01.txt")
	if err := os.WriteFile(old, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	if err := j.CompressOlder(0); err != nil {
		t.Fatalf("CompressOlder failed: %v", err)
	}
	if _, err := os.Stat(old); err != nil {
		t.Error("Non-positive retention must leave journal files alone")
	}
}
