package types

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"

	DirectionLong  = "LONG"
	DirectionShort = "SHORT"

	ClassIntraday = "Intraday"
	ClassDelivery = "Delivery"

	// Holding periods shorter than one day are intraday.
	IntradayCutoffMinutes = 1440
)

// Charges is the fee breakdown attached to a single execution, as reported
// by the broker statement. Total is the sum of the four parts.
type Charges struct {
	Brokerage decimal.Decimal `json:"brokerage"`
	STT       decimal.Decimal `json:"stt"`
	GST       decimal.Decimal `json:"gst"`
	Misc      decimal.Decimal `json:"misc"`
	Total     decimal.Decimal `json:"total"`
}

func (c Charges) Add(o Charges) Charges {
	return Charges{
		Brokerage: c.Brokerage.Add(o.Brokerage),
		STT:       c.STT.Add(o.STT),
		GST:       c.GST.Add(o.GST),
		Misc:      c.Misc.Add(o.Misc),
		Total:     c.Total.Add(o.Total),
	}
}

// ExecutionRow is one literal fill from a broker ledger. Immutable once
// produced by a normalizer. TradeTime and OrderTime are zero when the
// statement carried an unparseable timestamp.
type ExecutionRow struct {
	Symbol    string          `json:"symbol"`
	Action    string          `json:"action"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	TradeTime time.Time       `json:"trade_time"`
	OrderTime time.Time       `json:"order_time"`
	Charges   Charges         `json:"charges"`
	Exchange  string          `json:"exchange,omitempty"`
	Broker    string          `json:"broker,omitempty"`
}

// OpenLeg is an unmatched execution waiting for its counter-fill in a
// per-symbol FIFO queue. Kind is LONG for a buy awaiting a sell, SHORT for
// a sell awaiting a buy.
type OpenLeg struct {
	Kind string
	Row  ExecutionRow
}

// Trade is a fully matched round trip. DisciplineScore and Grade are
// assigned by the scorer after reconstruction; every other field is fixed
// at build time.
type Trade struct {
	Symbol          string          `json:"symbol"`
	Direction       string          `json:"direction"`
	Quantity        decimal.Decimal `json:"quantity"`
	EntryPrice      decimal.Decimal `json:"entry_price"`
	ExitPrice       decimal.Decimal `json:"exit_price"`
	EntryTime       time.Time       `json:"entry_time"`
	ExitTime        time.Time       `json:"exit_time"`
	HoldingMinutes  int64           `json:"holding_minutes"`
	GrossPnL        decimal.Decimal `json:"gross_pnl"`
	Charges         Charges         `json:"charges"`
	NetPnL          decimal.Decimal `json:"net_pnl"`
	Classification  string          `json:"classification"`
	DisciplineScore int             `json:"discipline_score"`
	Grade           string          `json:"grade"`
	Win             bool            `json:"win"`
	ReturnPct       float64         `json:"return_pct"`
	Exchange        string          `json:"exchange,omitempty"`
	Broker          string          `json:"broker,omitempty"`
}

// PositionValue is the capital committed at entry.
func (t Trade) PositionValue() decimal.Decimal {
	return t.EntryPrice.Mul(t.Quantity)
}

// AttentionItem is a symbol excluded from reconstruction because its total
// buy and sell quantities do not balance. Rows keeps the original
// executions for manual audit; they are never turned into trades.
type AttentionItem struct {
	Symbol         string          `json:"symbol"`
	BuyQty         decimal.Decimal `json:"buy_qty"`
	SellQty        decimal.Decimal `json:"sell_qty"`
	Difference     decimal.Decimal `json:"difference"`
	InferredStatus string          `json:"inferred_status"`
	Rows           []ExecutionRow  `json:"rows"`
}

// PortfolioStats aggregates one full trade set.
type PortfolioStats struct {
	TotalTrades   int `json:"total_trades"`
	WinningTrades int `json:"winning_trades"`
	LosingTrades  int `json:"losing_trades"`

	WinRate      float64 `json:"win_rate"`
	ProfitFactor float64 `json:"profit_factor"`

	NetPnL       decimal.Decimal `json:"net_pnl"`
	GrossPnL     decimal.Decimal `json:"gross_pnl"`
	TotalCharges decimal.Decimal `json:"total_charges"`
	AvgWin       decimal.Decimal `json:"avg_win"`
	AvgLoss      decimal.Decimal `json:"avg_loss"`
	LargestWin   decimal.Decimal `json:"largest_win"`
	LargestLoss  decimal.Decimal `json:"largest_loss"`

	AvgDisciplineScore float64 `json:"avg_discipline_score"`

	LongTrades   int             `json:"long_trades"`
	ShortTrades  int             `json:"short_trades"`
	LongPnL      decimal.Decimal `json:"long_pnl"`
	ShortPnL     decimal.Decimal `json:"short_pnl"`
	LongWinRate  float64         `json:"long_win_rate"`
	ShortWinRate float64         `json:"short_win_rate"`

	TotalBrokerage decimal.Decimal `json:"total_brokerage"`
	TotalSTT       decimal.Decimal `json:"total_stt"`
	TotalGST       decimal.Decimal `json:"total_gst"`
	TotalMisc      decimal.Decimal `json:"total_misc"`
}

const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// PatternFinding is one behavioral issue flagged over a trade set.
type PatternFinding struct {
	Name           string `json:"pattern"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// Result is the outcome of analyzing one uploaded ledger. A new upload
// fully replaces the previous Result; nothing is merged across uploads.
type Result struct {
	Trades      []Trade          `json:"trades"`
	Attention   []AttentionItem  `json:"attention"`
	Stats       PortfolioStats   `json:"stats"`
	Findings    []PatternFinding `json:"findings"`
	SourceRows  int              `json:"source_rows"`
	GeneratedAt time.Time        `json:"generated_at"`
}
