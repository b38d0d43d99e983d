// Package imports extracts module specifiers from TypeScript sources using tree-sitter.
package imports

import (
	"context"
	"path"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	ts "github.com/smacker/go-tree-sitter/typescript/typescript"
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ImportScanner = (*Scanner)(nil)

// importQuery captures every module specifier. Capture names select the import kind.
const importQuery = `
(import_statement source: (string) @static)
(export_statement source: (string) @static)
(import_require_clause (string) @require)
(call_expression
  function: (import)
  arguments: (arguments . (string) @dynamic))
(call_expression
  function: (identifier) @callee
  arguments: (arguments . (string) @require)
  (#eq? @callee "require"))
`

type grammar struct {
	once  sync.Once
	lang  *sitter.Language
	query *sitter.Query
	err   error
}

func (g *grammar) load(get func() *sitter.Language) (*sitter.Language, *sitter.Query, error) {
	g.once.Do(func() {
		g.lang = get()
		g.query, g.err = sitter.NewQuery([]byte(importQuery), g.lang)
	})
	return g.lang, g.query, g.err
}

// Scanner implements ports.ImportScanner.
type Scanner struct {
	typescript grammar
	tsx        grammar
}

// NewScanner creates a new Scanner. Grammars and queries are compiled on first use.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan returns the imports of src in source order.
func (s *Scanner) Scan(ctx context.Context, filePath string, src []byte) ([]domain.ImportRef, error) {
	lang, query, err := s.grammarFor(filePath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrImportScanFailed, err.Error()), "path", filePath)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrImportScanFailed, err.Error()), "path", filePath)
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, tree.RootNode())

	var refs []domain.ImportRef
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, src)

		for _, capture := range match.Captures {
			kind, ok := captureKind(query.CaptureNameForId(capture.Index))
			if !ok {
				continue
			}
			start := capture.Node.StartPoint()
			refs = append(refs, domain.ImportRef{
				Specifier: unquote(capture.Node.Content(src)),
				Line:      int(start.Row) + 1,
				Column:    int(start.Column) + 1,
				Kind:      kind,
			})
		}
	}

	return refs, nil
}

func (s *Scanner) grammarFor(filePath string) (*sitter.Language, *sitter.Query, error) {
	if strings.EqualFold(path.Ext(filePath), ".tsx") {
		return s.tsx.load(tsx.GetLanguage)
	}
	return s.typescript.load(ts.GetLanguage)
}

func captureKind(name string) (domain.ImportKind, bool) {
	switch name {
	case "static":
		return domain.ImportStatic, true
	case "dynamic":
		return domain.ImportDynamic, true
	case "require":
		return domain.ImportRequire, true
	default:
		return 0, false
	}
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
