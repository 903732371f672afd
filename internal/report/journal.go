package report

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tradeaudit/internal/types"
)

// Journal appends one JSONL entry per analysis run to a daily file. It is
// an audit trail of what was analyzed, not a store of the trades themselves
// (results are session-only and fully replaced per upload).
type Journal struct {
	mu  sync.Mutex
	dir string
}

type JournalEntry struct {
	Time      string `json:"time"`
	Source    string `json:"source"`
	Rows      int    `json:"rows"`
	Trades    int    `json:"trades"`
	Attention int    `json:"attention"`
	Findings  int    `json:"findings"`
	NetPnL    string `json:"net_pnl"`
}

func NewJournal(dir string) *Journal {
	return &Journal{dir: dir}
}

func (j *Journal) dailyFilepath(t time.Time) string {
	d := t.In(ist).Format("2006-01-02")
	return filepath.Join(j.dir, d+".txt")
}

// Append records one analysis run.
func (j *Journal) Append(source string, result *types.Result) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := time.Now().In(ist)
	e := JournalEntry{
		Time:      now.Format("2006-01-02 15:04:05"),
		Source:    source,
		Rows:      result.SourceRows,
		Trades:    len(result.Trades),
		Attention: len(result.Attention),
		Findings:  len(result.Findings),
		NetPnL:    result.Stats.NetPnL.StringFixed(2),
	}

	p := j.dailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(e)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips journal files past the retention window and removes
// the originals. A non-positive retention disables compression.
func (j *Journal) CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	return filepath.WalkDir(j.dir, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}

		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			return os.Remove(p)
		}

		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()

		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			return os.Remove(p)
		}
		_ = gw.Close()
		_ = out.Close()
		return nil
	})
}
