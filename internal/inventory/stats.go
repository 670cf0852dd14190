package inventory

import "math"

const criticalThreshold = 70

// Stats summarizes a filtered asset collection
type Stats struct {
	TotalAssets           int              `json:"totalAssets"`
	CriticalAssets        int              `json:"criticalAssets"`
	AppVulnerabilityCount int              `json:"appVulnerabilityCount"`
	AverageRisk           int              `json:"averageRisk"`
	SeverityDistribution  map[Severity]int `json:"severityDistribution"`
}

// Aggregate computes the statistics of the given (already filtered) assets
func Aggregate(assets []Asset, policy Policy) Stats {
	stats := Stats{
		TotalAssets: len(assets),
		SeverityDistribution: map[Severity]int{
			SeverityCritical: 0,
			SeverityHigh:     0,
			SeverityMedium:   0,
			SeverityLow:      0,
			SeverityUnknown:  0,
		},
	}

	sum := 0
	for _, a := range assets {
		sum += a.RiskScore
		if a.RiskScore > criticalThreshold {
			stats.CriticalAssets++
		}

		for _, v := range a.Vulnerabilities {
			if !policy.IsOpen(v.Status) {
				continue
			}
			stats.SeverityDistribution[ParseSeverity(string(v.Severity))]++
			if policy.Watched(v.Name) {
				stats.AppVulnerabilityCount++
			}
		}
	}

	if stats.TotalAssets > 0 {
		stats.AverageRisk = int(math.Round(float64(sum) / float64(stats.TotalAssets)))
	}

	return stats
}
