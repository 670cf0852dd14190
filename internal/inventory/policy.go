package inventory

import "strings"

// Policy holds the status and application lists shared by the filter engine and the statistics calculator. Both
// must use the same value so "open" means the same thing in the list and in the counters.
type Policy struct {
	OpenStatuses  []string
	WatchList     []string
	DefaultStatus string
}

// DefaultPolicy returns the policy used when no policy file is configured
func DefaultPolicy() Policy {
	return Policy{
		OpenStatuses:  []string{StatusOpen, StatusNew, StatusActive, StatusResurfaced},
		WatchList:     []string{"chrome", "edge", "office"},
		DefaultStatus: StatusActive,
	}
}

// IsOpen reports whether status is in the open set (case-insensitive)
func (p Policy) IsOpen(status string) bool {
	for _, s := range p.OpenStatuses {
		if strings.EqualFold(s, status) {
			return true
		}
	}
	return false
}

// Watched reports whether name contains any entry of the watch list (case-insensitive)
func (p Policy) Watched(name string) bool {
	name = strings.ToLower(name)
	for _, app := range p.WatchList {
		if app == "" {
			continue
		}
		if strings.Contains(name, strings.ToLower(app)) {
			return true
		}
	}
	return false
}
