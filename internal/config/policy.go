package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/secassets/inventory-backend/internal/inventory"
	"gopkg.in/yaml.v2"
)

type policyFile struct {
	OpenStatuses  []string `yaml:"open_statuses"`
	WatchList     []string `yaml:"watch_list"`
	DefaultStatus string   `yaml:"default_status"`
}

// LoadPolicy reads a policy file. Keys missing from the file keep their default values, and an empty path returns
// the default policy.
func LoadPolicy(path string) (inventory.Policy, error) {
	policy := inventory.DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return inventory.Policy{}, fmt.Errorf("reading policy file: %w", err)
	}

	f := policyFile{}
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return inventory.Policy{}, fmt.Errorf("parsing policy file %q: %w", path, err)
	}

	if statuses := nonEmpty(f.OpenStatuses); len(statuses) > 0 {
		policy.OpenStatuses = statuses
	}
	if apps := nonEmpty(f.WatchList); len(apps) > 0 {
		policy.WatchList = apps
	}
	if s := strings.TrimSpace(f.DefaultStatus); s != "" {
		policy.DefaultStatus = s
	}

	return policy, nil
}

func nonEmpty(values []string) []string {
	ret := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			ret = append(ret, v)
		}
	}
	return ret
}
