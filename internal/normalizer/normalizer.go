// Package normalizer turns broker-specific tradebook exports into the
// canonical execution-row ledger consumed by the reconstructor. Each parser
// claims a format from the header row; rows with non-positive quantity or
// price never leave this package.
package normalizer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"tradeaudit/internal/logger"
	"tradeaudit/internal/trace"
	"tradeaudit/internal/types"
)

// ErrUnknownFormat is the format error surfaced when no parser recognizes
// the uploaded file. Reconstruction never starts in that case.
var ErrUnknownFormat = errors.New("unrecognized broker format: supported Kotak Securities, Zerodha tradebook")

var ist = time.FixedZone("IST", 19800)

// FromFile reads a tradebook export from disk and normalizes it.
func FromFile(ctx context.Context, path string) ([]types.ExecutionRow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Normalize(ctx, data)
}

// Normalize detects the broker format from the header row and dispatches to
// the matching parser.
func Normalize(ctx context.Context, data []byte) ([]types.ExecutionRow, error) {
	ctx, span := trace.StartSpan(ctx, "normalizer.Normalize")
	defer span.End()

	data = stripBOM(data)

	header := headerLine(data)
	switch {
	case isKotakHeader(header):
		logger.Info(ctx, "Detected broker format", "broker", "Kotak Securities")
		return parseKotak(ctx, data)
	case isZerodhaHeader(header):
		logger.Info(ctx, "Detected broker format", "broker", "Zerodha")
		return parseZerodha(ctx, data)
	default:
		return nil, ErrUnknownFormat
	}
}

func stripBOM(data []byte) []byte {
	return bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
}

func headerLine(data []byte) string {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	return strings.ToLower(string(line))
}

func isKotakHeader(header string) bool {
	return strings.Contains(header, "trade date") &&
		strings.Contains(header, "transaction type") &&
		strings.Contains(header, "security name")
}

func isZerodhaHeader(header string) bool {
	return strings.Contains(header, "symbol") &&
		strings.Contains(header, "order_execution_time") &&
		strings.Contains(header, "trade_type")
}

// normalizeAction maps broker action spellings ("Buy", "buy", "BUY") to the
// canonical constants; unknown actions return empty.
func normalizeAction(raw string) string {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "BUY", "B":
		return types.ActionBuy
	case "SELL", "S":
		return types.ActionSell
	default:
		return ""
	}
}
