package ports

import (
	"context"

	"zheatmap/domain/table"
)

// TableLoaderPort reads a tabular file into memory
type TableLoaderPort interface {
	// Load returns the table stored at path. The file is closed before Load
	// returns.
	Load(ctx context.Context, path string) (*table.Table, error)
}
