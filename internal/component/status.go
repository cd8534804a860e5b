package component

import "strings"

// Status is the install status derived from filesystem evidence.
type Status int

const (
	Available Status = iota
	Downloaded
	Installed
)

var statusNames = [...]string{"AVAILABLE", "DOWNLOADED", "INSTALLED"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "UNKNOWN"
	}
	return statusNames[s]
}

// MatchesName reports whether name equals the status name, ignoring case.
func (s Status) MatchesName(name string) bool {
	return strings.EqualFold(s.String(), name)
}

// MarshalText renders the status by name in JSON and YAML output.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
