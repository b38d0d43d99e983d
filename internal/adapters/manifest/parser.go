// Package manifest decodes package.json files.
package manifest

import (
	"github.com/cespare/xxhash/v2"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestParser = (*Parser)(nil)

var (
	nameX          = jp.MustParseString("$.name")
	versionX       = jp.MustParseString("$.version")
	typeX          = jp.MustParseString("$.type")
	typesX         = jp.MustParseString("$.types")
	typingsX       = jp.MustParseString("$.typings")
	mainX          = jp.MustParseString("$.main")
	exportsX       = jp.MustParseString("$.exports")
	typesVersionsX = jp.MustParseString("$.typesVersions")

	dependencyX         = jp.MustParseString("$.dependencies")
	devDependencyX      = jp.MustParseString("$.devDependencies")
	peerDependencyX     = jp.MustParseString("$.peerDependencies")
	optionalDependencyX = jp.MustParseString("$.optionalDependencies")
)

// Parser implements ports.ManifestParser using ojg.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes a manifest. Malformed input yields an empty info with Parseable unset and an error.
func (p *Parser) Parse(path string, data []byte) (*domain.ManifestInfo, error) {
	info := domain.EmptyManifest(path)
	info.Digest = xxhash.Sum64(data)

	doc, err := oj.Parse(data)
	if err != nil {
		return info, zerr.With(zerr.Wrap(domain.ErrManifestParseFailed, err.Error()), "path", path)
	}
	if _, ok := doc.(map[string]any); !ok {
		return info, zerr.With(zerr.Wrap(domain.ErrManifestParseFailed, "manifest is not an object"), "path", path)
	}

	info.Parseable = true
	info.Name = stringAt(doc, nameX)
	info.Version = stringAt(doc, versionX)
	info.Type = domain.ParseModuleType(stringAt(doc, typeX))
	info.Types = stringAt(doc, typesX)
	if info.Types == "" {
		info.Types = stringAt(doc, typingsX)
	}
	info.Main = stringAt(doc, mainX)
	info.Exports = exportsX.First(doc)
	info.TypesVersions = typesVersions(typesVersionsX.First(doc))

	info.Dependencies = stringMap(dependencyX.First(doc))
	info.DevDependencies = stringMap(devDependencyX.First(doc))
	info.PeerDependencies = stringMap(peerDependencyX.First(doc))
	info.OptionalDependencies = stringMap(optionalDependencyX.First(doc))

	return info, nil
}

func stringAt(doc any, x jp.Expr) string {
	s, _ := x.First(doc).(string)
	return s
}

func stringMap(v any) map[string]string {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(obj))
	for k, raw := range obj {
		if s, ok := raw.(string); ok {
			out[k] = s
		}
	}
	return out
}

// typesVersions decodes {"<range>": {"<pattern>": ["<substitution>", ...]}}.
// Entries with the wrong shape are dropped.
func typesVersions(v any) map[string]map[string][]string {
	ranges, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]map[string][]string, len(ranges))
	for versionRange, rawPaths := range ranges {
		paths, ok := rawPaths.(map[string]any)
		if !ok {
			continue
		}
		table := make(map[string][]string, len(paths))
		for pattern, rawSubs := range paths {
			subs, ok := rawSubs.([]any)
			if !ok {
				continue
			}
			for _, s := range subs {
				if str, ok := s.(string); ok {
					table[pattern] = append(table[pattern], str)
				}
			}
		}
		out[versionRange] = table
	}
	return out
}
