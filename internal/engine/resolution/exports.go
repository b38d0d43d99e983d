package resolution

import (
	"slices"
	"strings"
)

// conditionOrder returns the conditions in matching priority.
// Decoded manifests lose object key order, so conditions are tried in this
// fixed order instead of the order they are written in.
func conditionOrder(conditions []string) []string {
	return append(slices.Clone(conditions), "default")
}

// resolveExports maps subpath ("." or "./x") through an exports value.
// It returns the target and whether the exports value matched.
func resolveExports(exports any, subpath string, conditions []string) (string, bool) {
	table, ok := exports.(map[string]any)
	if !ok || !hasSubpathKeys(table) {
		if subpath != "." {
			return "", false
		}
		return resolveTarget(exports, "", conditions)
	}

	if target, ok := table[subpath]; ok {
		return resolveTarget(target, "", conditions)
	}

	// Pattern keys: the longest prefix before "*" wins.
	var bestKey, bestMatch string
	bestLen := -1
	for key := range table {
		prefix, suffix, ok := strings.Cut(key, "*")
		if !ok || !strings.HasPrefix(subpath, prefix) || !strings.HasSuffix(subpath, suffix) {
			continue
		}
		if len(subpath) < len(prefix)+len(suffix) {
			continue
		}
		if len(prefix) > bestLen || (len(prefix) == bestLen && key < bestKey) {
			bestKey, bestLen = key, len(prefix)
			bestMatch = subpath[len(prefix) : len(subpath)-len(suffix)]
		}
	}
	if bestKey == "" {
		return "", false
	}
	return resolveTarget(table[bestKey], bestMatch, conditions)
}

func hasSubpathKeys(table map[string]any) bool {
	for key := range table {
		if strings.HasPrefix(key, ".") {
			return true
		}
	}
	return false
}

func resolveTarget(target any, match string, conditions []string) (string, bool) {
	switch t := target.(type) {
	case string:
		if match != "" {
			t = strings.ReplaceAll(t, "*", match)
		}
		return t, true
	case []any:
		for _, alt := range t {
			if resolved, ok := resolveTarget(alt, match, conditions); ok {
				return resolved, true
			}
		}
		return "", false
	case map[string]any:
		for _, cond := range conditionOrder(conditions) {
			if next, ok := t[cond]; ok {
				if resolved, ok := resolveTarget(next, match, conditions); ok {
					return resolved, true
				}
			}
		}
		return "", false
	default:
		return "", false
	}
}

// resolveTypesVersions maps subpath through the typesVersions table.
// Ranges are not compared against a compiler version: "*" wins, otherwise the
// lexically first range is used.
func resolveTypesVersions(table map[string]map[string][]string, subpath string) ([]string, string, bool) {
	if len(table) == 0 {
		return nil, "", false
	}
	versionRange := "*"
	paths, ok := table[versionRange]
	if !ok {
		ranges := make([]string, 0, len(table))
		for r := range table {
			ranges = append(ranges, r)
		}
		slices.Sort(ranges)
		versionRange = ranges[0]
		paths = table[versionRange]
	}

	if subs, ok := paths[subpath]; ok {
		return subs, versionRange, true
	}
	patterns := make([]string, 0, len(paths))
	for pattern := range paths {
		patterns = append(patterns, pattern)
	}
	slices.Sort(patterns)
	for _, pattern := range patterns {
		subs := paths[pattern]
		prefix, suffix, ok := strings.Cut(pattern, "*")
		if !ok || !strings.HasPrefix(subpath, prefix) || !strings.HasSuffix(subpath, suffix) ||
			len(subpath) < len(prefix)+len(suffix) {
			continue
		}
		match := subpath[len(prefix) : len(subpath)-len(suffix)]
		out := make([]string, len(subs))
		for i, s := range subs {
			out[i] = strings.ReplaceAll(s, "*", match)
		}
		return out, versionRange, true
	}
	return nil, versionRange, false
}
