package export

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/secassets/inventory-backend/internal/inventory"
	"github.com/secassets/inventory-backend/internal/session"
	"github.com/secassets/inventory-backend/internal/store"
	"github.com/sirupsen/logrus"
)

// Viewer returns the filtered view of a scope
type Viewer interface {
	View(ctx context.Context, scope inventory.Scope, criteria inventory.Criteria) (*store.View, error)
}

// Handler serves the filtered asset list as newline separated plain text, ready to be pasted elsewhere
type Handler struct {
	viewer Viewer
	log    logrus.FieldLogger
}

func New(viewer Viewer, log logrus.FieldLogger) *Handler {
	return &Handler{viewer: viewer, log: log}
}

// Workstations lists the names of the filtered assets
func (h *Handler) Workstations() http.Handler {
	return h.list(inventory.Names)
}

// IPs lists the addresses of the filtered assets
func (h *Handler) IPs() http.Handler {
	return h.list(inventory.IPs)
}

func (h *Handler) list(values func([]inventory.Asset) []string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		scope, err := session.FromContext(r.Context())
		if err != nil {
			http.Error(w, "no session selected", http.StatusUnauthorized)
			return
		}

		criteria, err := CriteriaFromQuery(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		view, err := h.viewer.View(r.Context(), scope, criteria)
		if errors.Is(err, store.ErrBackendUnavailable) {
			http.Error(w, "inventory backend unavailable", http.StatusServiceUnavailable)
			return
		} else if err != nil {
			h.log.WithError(err).Error("exporting assets")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(strings.Join(values(view.Assets), "\n")))
	})
}

// CriteriaFromQuery reads filter criteria from the q, analyst, vuln and minRisk query parameters
func CriteriaFromQuery(q url.Values) (inventory.Criteria, error) {
	criteria := inventory.DefaultCriteria()
	criteria.SearchText = q.Get("q")
	criteria.VulnerabilityName = q.Get("vuln")
	if v := q.Get("analyst"); v != "" {
		criteria.Analyst = v
	}

	if v := q.Get("minRisk"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return inventory.Criteria{}, fmt.Errorf("minRisk must be a number, got %q", v)
		}
		criteria.MinimumRisk = n
	}

	if err := criteria.Validate(); err != nil {
		return inventory.Criteria{}, err
	}
	return criteria, nil
}
