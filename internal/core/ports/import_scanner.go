package ports

import (
	"context"

	"go.trai.ch/resolvd/internal/core/domain"
)

// ImportScanner extracts module specifiers from source files.
//
//go:generate mockgen -source=import_scanner.go -destination=mocks/mock_import_scanner.go -package=mocks
type ImportScanner interface {
	// Scan returns the imports of the source file at path in source order.
	Scan(ctx context.Context, path string, src []byte) ([]domain.ImportRef, error)
}
