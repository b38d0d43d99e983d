package resolution

import (
	"fmt"
	"strings"

	"go.trai.ch/resolvd/internal/core/domain"
)

// traceLog collects resolution trace lines when enabled.
type traceLog struct {
	enabled bool
	lines   []string
}

func (t *traceLog) printf(format string, args ...any) {
	if t.enabled {
		t.lines = append(t.lines, fmt.Sprintf(format, args...))
	}
}

// manifest records one manifest location consulted through the manifest cache.
func (t *traceLog) manifest(path string, presence domain.Presence, cached bool) {
	switch {
	case presence == domain.PresencePresent && cached:
		t.printf("File '%s' exists according to earlier cached lookups.", path)
	case presence == domain.PresencePresent:
		t.printf("Found 'package.json' at '%s'.", path)
	case cached:
		t.printf("File '%s' does not exist according to earlier cached lookups.", path)
	default:
		t.printf("File '%s' does not exist.", path)
	}
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	return strings.Join(quoted, ", ")
}
