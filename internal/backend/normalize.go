package backend

import (
	"errors"
	"strings"
	"time"

	"github.com/secassets/inventory-backend/internal/inventory"
	"github.com/sirupsen/logrus"
)

const dateFormat = "2006-01-02"

var ErrMissingID = errors.New("record has no id")

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	dateFormat,
}

// Normalizer maps raw backend records to inventory assets
type Normalizer struct {
	defaultStatus string
	log           logrus.FieldLogger
}

// NewNormalizer creates a normalizer. defaultStatus is used for vulnerabilities without a join record state.
func NewNormalizer(defaultStatus string, log logrus.FieldLogger) *Normalizer {
	if defaultStatus == "" {
		defaultStatus = inventory.StatusActive
	}
	return &Normalizer{defaultStatus: defaultStatus, log: log}
}

// Normalize maps a single raw record. Records without an id are rejected with ErrMissingID.
func (n *Normalizer) Normalize(raw RawAsset) (inventory.Asset, error) {
	if strings.TrimSpace(raw.ID.String()) == "" {
		return inventory.Asset{}, ErrMissingID
	}

	a := inventory.Asset{
		ID:              raw.ID.String(),
		Name:            raw.AssetName,
		IP:              raw.IP,
		OS:              raw.OS,
		User:            raw.UserID,
		Type:            raw.Type,
		Analyst:         inventory.Unassigned,
		Status:          inventory.Operational,
		Vulnerabilities: make([]inventory.Vulnerability, 0, len(raw.Vulnerabilities)),
	}

	if raw.Analyst != nil {
		a.Analyst = raw.Analyst.Name
		a.AnalystID = raw.Analyst.ID.String()
	}

	for _, rv := range raw.Vulnerabilities {
		if rv.ID == "" {
			n.log.WithField("asset", a.ID).Debugf("vulnerability %q has no id", rv.VulnName)
		}
		a.Vulnerabilities = append(a.Vulnerabilities, n.vulnerability(rv))
	}

	a.RiskScore = inventory.ComputeRisk(a.Vulnerabilities)
	return a, nil
}

// NormalizeAll maps a batch of raw records. Rejected records are logged and skipped, the rest of the batch is kept.
func (n *Normalizer) NormalizeAll(raws []RawAsset) []inventory.Asset {
	ret := make([]inventory.Asset, 0, len(raws))
	for _, raw := range raws {
		a, err := n.Normalize(raw)
		if err != nil {
			n.log.WithError(err).WithField("asset_name", raw.AssetName).Warn("skipping asset record")
			continue
		}
		ret = append(ret, a)
	}
	return ret
}

func (n *Normalizer) vulnerability(rv RawVulnerability) inventory.Vulnerability {
	v := inventory.Vulnerability{
		ID:       rv.ID.String(),
		Name:     rv.VulnName,
		Product:  rv.ProductName,
		PluginID: rv.PluginID.String(),
		Severity: inventory.ParseSeverity(rv.Severity),
		Status:   n.defaultStatus,
	}

	if v.Name == "" {
		v.Name = rv.ProductName
	}

	if rv.Detection != nil {
		if s := strings.TrimSpace(rv.Detection.State); s != "" {
			v.Status = s
		}
		v.DetectedDate = formatDate(rv.Detection.DetectedAt)
		v.LastPatchedDate = formatDate(rv.Detection.LastPatchedAt)
	}

	return v
}

// formatDate formats a backend timestamp as YYYY-MM-DD. Values that cannot be parsed are returned as is.
func formatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format(dateFormat)
		}
	}
	return s
}
