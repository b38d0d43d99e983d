package domain

// Presence records what is known about a manifest file in a directory.
type Presence uint8

const (
	// PresenceUnknown means the directory has never been probed.
	PresenceUnknown Presence = iota
	// PresencePresent means a manifest file exists in the directory.
	PresencePresent
	// PresenceAbsent means the directory was probed and has no manifest file.
	PresenceAbsent
)

// String returns the presence name.
func (p Presence) String() string {
	switch p {
	case PresencePresent:
		return "Present"
	case PresenceAbsent:
		return "Absent"
	default:
		return "Unknown"
	}
}

// Known reports whether the directory state has been resolved.
func (p Presence) Known() bool {
	return p != PresenceUnknown
}

// Lookup is the three-way result of reading a manifest path from the cache.
// Info is non-nil only when Presence is PresencePresent.
type Lookup struct {
	Info     *ManifestInfo
	Presence Presence
}

// Found reports whether the lookup returned a cached manifest.
func (l Lookup) Found() bool {
	return l.Presence == PresencePresent && l.Info != nil
}
