package inventory

import (
	"strings"
)

const (
	// Unassigned is used as analyst name when an asset has no analyst relation
	Unassigned = "Unassigned"

	// Operational is the display status of every normalized asset. It is kept apart from the vulnerability
	// statuses so equipment status and vulnerability lifecycle never share a badge.
	Operational = "Operational"
)

type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
	SeverityLow      Severity = "Low"
	SeverityUnknown  Severity = "Unknown"
)

// ParseSeverity parses a severity case-insensitively. Anything unrecognized is SeverityUnknown.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityHigh
	case "medium", "moderate":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return SeverityUnknown
	}
}

func (s Severity) String() string {
	return string(s)
}

// Rank returns an integer rank for comparison (Low=1, Critical=4)
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// Known vulnerability statuses. The backend may send other values, they are kept verbatim.
const (
	StatusNew        = "New"
	StatusActive     = "Active"
	StatusResurfaced = "Resurfaced"
	StatusOpen       = "Open"
	StatusFixed      = "Fixed"
	StatusClosed     = "Closed"
)

// Asset is a managed workstation
type Asset struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	IP              string          `json:"ip"`
	OS              string          `json:"os"`
	User            string          `json:"user"`
	Type            string          `json:"type"`
	AnalystID       string          `json:"analystId,omitempty"`
	Analyst         string          `json:"analyst"`
	Status          string          `json:"status"`
	RiskScore       int             `json:"riskScore"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
}

// Vulnerability is one detected issue on one asset. ID is unique per asset association only.
type Vulnerability struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Product         string   `json:"product,omitempty"`
	PluginID        string   `json:"pluginId,omitempty"`
	Severity        Severity `json:"severity"`
	Status          string   `json:"status"`
	DetectedDate    string   `json:"detectedDate,omitempty"`
	LastPatchedDate string   `json:"lastPatchedDate,omitempty"`
}

// Analyst is an entry in the analyst directory
type Analyst struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IsFixed reports whether the vulnerability has been remediated
func (v Vulnerability) IsFixed() bool {
	return strings.EqualFold(v.Status, StatusFixed) || strings.EqualFold(v.Status, StatusClosed)
}

// Clone returns a deep copy of the asset
func (a Asset) Clone() Asset {
	c := a
	if a.Vulnerabilities != nil {
		c.Vulnerabilities = make([]Vulnerability, len(a.Vulnerabilities))
		copy(c.Vulnerabilities, a.Vulnerabilities)
	}
	return c
}

// Names returns the asset names in order
func Names(assets []Asset) []string {
	ret := make([]string, 0, len(assets))
	for _, a := range assets {
		ret = append(ret, a.Name)
	}
	return ret
}

// IPs returns the asset addresses in order
func IPs(assets []Asset) []string {
	ret := make([]string, 0, len(assets))
	for _, a := range assets {
		ret = append(ret, a.IP)
	}
	return ret
}
