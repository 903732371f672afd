package normalizer

import (
	"context"

	"tradeaudit/internal/types"
)

// FileSource normalizes a tradebook export on disk.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Rows(ctx context.Context) ([]types.ExecutionRow, error) {
	return FromFile(ctx, s.path)
}
