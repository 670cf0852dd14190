package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an identifier sent by the backend either as a JSON number or a JSON string
type ID string

func (i *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*i = ""
		return nil
	}

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("id must be a string or a number: %w", err)
		}
		*i = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*i = ID(n.String())
	return nil
}

func (i ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(i), 10, 64); err == nil {
		return []byte(i), nil
	}
	return json.Marshal(string(i))
}

func (i ID) String() string {
	return string(i)
}

// RawAsset is an asset ("equipo") as returned by the backend
type RawAsset struct {
	ID              ID                 `json:"id"`
	AssetName       string             `json:"assetName"`
	IP              string             `json:"IP"`
	OS              string             `json:"SO"`
	UserID          string             `json:"UserID"`
	Type            string             `json:"type"`
	Analyst         *RawAnalyst        `json:"analista"`
	Vulnerabilities []RawVulnerability `json:"vulnerabilidades"`
}

// RawAnalyst is an analyst ("analista") as returned by the backend
type RawAnalyst struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

// RawVulnerability is a vulnerability joined to an asset
type RawVulnerability struct {
	ID          ID                `json:"id"`
	PluginID    ID                `json:"pluginId"`
	VulnName    string            `json:"vulnName"`
	Severity    string            `json:"severity"`
	ProductName string            `json:"productName"`
	Detection   *RawAssetVulnLink `json:"EquipoVulnerabilidad"`
}

// RawAssetVulnLink is the asset/vulnerability join record carrying the lifecycle state
type RawAssetVulnLink struct {
	State         string `json:"estado"`
	DetectedAt    string `json:"fechaDetectada"`
	LastPatchedAt string `json:"fechaParchado"`
}
