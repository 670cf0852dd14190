package patch

import (
	"strings"

	"github.com/secassets/inventory-backend/internal/inventory"
)

// Products returns the distinct product names found on the given assets, in first-seen order. These are the values
// a bulk patch can target.
func Products(assets []inventory.Asset) []string {
	seen := map[string]struct{}{}
	ret := make([]string, 0)
	for _, a := range assets {
		for _, v := range a.Vulnerabilities {
			p := strings.TrimSpace(v.Product)
			if p == "" {
				continue
			}
			if _, found := seen[p]; found {
				continue
			}
			seen[p] = struct{}{}
			ret = append(ret, p)
		}
	}
	return ret
}
