package domain

import "slices"

// ModuleType is the module format declared by a manifest's "type" field.
type ModuleType uint8

const (
	// ModuleTypeNone means the manifest has no "type" field.
	ModuleTypeNone ModuleType = iota
	// ModuleTypeModule means the manifest declares "type": "module".
	ModuleTypeModule
	// ModuleTypeCommonJS means the manifest declares "type": "commonjs".
	ModuleTypeCommonJS
)

// String returns the manifest spelling of the module type.
func (t ModuleType) String() string {
	switch t {
	case ModuleTypeModule:
		return "module"
	case ModuleTypeCommonJS:
		return "commonjs"
	default:
		return ""
	}
}

// ParseModuleType maps a manifest "type" value to a ModuleType.
// Unrecognised values behave like a missing field.
func ParseModuleType(s string) ModuleType {
	switch s {
	case "module":
		return ModuleTypeModule
	case "commonjs":
		return ModuleTypeCommonJS
	default:
		return ModuleTypeNone
	}
}

// DependencyGroup selects one of the manifest dependency maps.
type DependencyGroup uint8

const (
	// GroupDependencies selects "dependencies".
	GroupDependencies DependencyGroup = 1 << iota
	// GroupDevDependencies selects "devDependencies".
	GroupDevDependencies
	// GroupPeerDependencies selects "peerDependencies".
	GroupPeerDependencies
	// GroupOptionalDependencies selects "optionalDependencies".
	GroupOptionalDependencies

	// AllDependencyGroups selects every dependency map.
	AllDependencyGroups = GroupDependencies | GroupDevDependencies | GroupPeerDependencies | GroupOptionalDependencies
)

// ManifestInfo holds the fields of a package manifest that resolution needs.
// A ManifestInfo is immutable once built; re-reading a manifest replaces it wholesale.
type ManifestInfo struct {
	// Path is the canonical path of the manifest file.
	Path string
	// Dir is the directory owning the manifest.
	Dir string

	Name    string
	Version string
	Type    ModuleType
	Types   string
	Main    string

	// Exports is the decoded "exports" value: a string, a slice or a map.
	Exports any
	// TypesVersions maps a version range to its path mapping table.
	TypesVersions map[string]map[string][]string

	Dependencies         map[string]string
	DevDependencies      map[string]string
	PeerDependencies     map[string]string
	OptionalDependencies map[string]string

	// Parseable is false when the file exists but is not a valid manifest.
	Parseable bool
	// Digest is the xxhash of the raw file contents.
	Digest uint64
}

// EmptyManifest returns the best-effort info used for a manifest that exists but cannot be parsed.
func EmptyManifest(path string) *ManifestInfo {
	return &ManifestInfo{
		Path: path,
		Dir:  DirOf(path),
	}
}

// Get returns the version range for dep from the selected dependency groups.
func (m *ManifestInfo) Get(dep string, groups DependencyGroup) (string, bool) {
	for _, g := range m.groups(groups) {
		if v, ok := g[dep]; ok {
			return v, true
		}
	}
	return "", false
}

// Has reports whether dep appears in any of the selected dependency groups.
func (m *ManifestInfo) Has(dep string, groups DependencyGroup) bool {
	_, ok := m.Get(dep, groups)
	return ok
}

// DependencyNames returns the sorted union of dependency names in the selected groups.
func (m *ManifestInfo) DependencyNames(groups DependencyGroup) []string {
	seen := make(map[string]struct{})
	for _, g := range m.groups(groups) {
		for name := range g {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (m *ManifestInfo) groups(groups DependencyGroup) []map[string]string {
	var out []map[string]string
	if groups&GroupDependencies != 0 {
		out = append(out, m.Dependencies)
	}
	if groups&GroupDevDependencies != 0 {
		out = append(out, m.DevDependencies)
	}
	if groups&GroupPeerDependencies != 0 {
		out = append(out, m.PeerDependencies)
	}
	if groups&GroupOptionalDependencies != 0 {
		out = append(out, m.OptionalDependencies)
	}
	return out
}
