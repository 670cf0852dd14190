package inventory

import "strings"

const maxRiskScore = 100

var severityWeights = map[Severity]int{
	SeverityCritical: 35,
	SeverityHigh:     20,
	SeverityMedium:   10,
	SeverityLow:      2,
}

// ComputeRisk returns the risk score (0-100) of a set of vulnerabilities. Fixed and closed vulnerabilities do not
// count, unknown severities weigh 1.
func ComputeRisk(vulns []Vulnerability) int {
	score := 0
	for _, v := range vulns {
		if v.IsFixed() {
			continue
		}
		score += severityWeight(v.Severity)
	}

	if score > maxRiskScore {
		return maxRiskScore
	}
	return score
}

func severityWeight(s Severity) int {
	if w, ok := severityWeights[ParseSeverity(string(s))]; ok {
		return w
	}
	return 1
}

// RiskLevel buckets a risk score the way the risk meter colours it
func RiskLevel(score int) string {
	switch {
	case score > 70:
		return "high"
	case score > 30:
		return "medium"
	default:
		return "low"
	}
}

// AppCategory tags vulnerabilities in commonly targeted desktop applications
func AppCategory(v Vulnerability) string {
	name := strings.ToLower(v.Name)
	switch {
	case strings.Contains(name, "office"), strings.Contains(name, "outlook"):
		return "office"
	case strings.Contains(name, "chrome"), strings.Contains(name, "edge"):
		return "browser"
	case strings.Contains(name, "adobe"):
		return "pdf"
	default:
		return ""
	}
}
