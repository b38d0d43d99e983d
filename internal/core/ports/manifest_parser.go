package ports

import "go.trai.ch/resolvd/internal/core/domain"

// ManifestParser decodes package manifest files.
//
//go:generate mockgen -source=manifest_parser.go -destination=mocks/mock_manifest_parser.go -package=mocks
type ManifestParser interface {
	// Parse decodes data read from the manifest at path.
	// On malformed input it returns a best-effort info with Parseable unset together with an error.
	Parse(path string, data []byte) (*domain.ManifestInfo, error)
}
