package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/secassets/inventory-backend/internal/inventory"
	"github.com/secassets/inventory-backend/internal/store"
	"github.com/sirupsen/logrus"
)

const (
	HeaderRole    = "X-Inventory-Role"
	HeaderAnalyst = "X-Inventory-Analyst"

	contextScope contextKey = 1
	contextEmail contextKey = 2
)

var ErrNoScope = errors.New("no session scope in context")

type (
	contextKey int
	Middleware func(next http.Handler) http.Handler
)

// Directory resolves analyst ids to analysts
type Directory interface {
	Analyst(ctx context.Context, id string) (inventory.Analyst, error)
}

// Selection is the role and analyst picked by the user before a scope is resolved
type Selection struct {
	Role      string
	AnalystID string
}

// ParseSelection parses a selection on the format 'admin' or 'analyst:<id>'
func ParseSelection(s string) (Selection, error) {
	role, id, _ := strings.Cut(strings.TrimSpace(s), ":")
	r, err := inventory.ParseRole(role)
	if err != nil {
		return Selection{}, err
	}

	if r == inventory.RoleAnalyst && strings.TrimSpace(id) == "" {
		return Selection{}, fmt.Errorf("%w: %q", inventory.ErrMissingAnalyst, s)
	}
	return Selection{Role: role, AnalystID: strings.TrimSpace(id)}, nil
}

// Resolve turns the selection into a scope, looking up the analyst name in the directory
func (s Selection) Resolve(ctx context.Context, dir Directory) (inventory.Scope, error) {
	r, err := inventory.ParseRole(s.Role)
	if err != nil {
		return inventory.Scope{}, err
	}

	analyst := inventory.Analyst{}
	if r == inventory.RoleAnalyst {
		if s.AnalystID == "" {
			return inventory.Scope{}, inventory.ErrMissingAnalyst
		}
		analyst, err = dir.Analyst(ctx, s.AnalystID)
		if err != nil {
			return inventory.Scope{}, err
		}
	}

	return inventory.ResolveScope(s.Role, analyst)
}

// Headers returns a middleware that resolves the session scope from the role and analyst headers. Requests
// without a role header pass through without a scope. The role is trusted as sent.
func Headers(dir Directory, log logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := r.Header.Get(HeaderRole)
			if role == "" {
				next.ServeHTTP(w, r)
				return
			}

			sel := Selection{Role: role, AnalystID: strings.TrimSpace(r.Header.Get(HeaderAnalyst))}
			scope, err := sel.Resolve(r.Context(), dir)
			if err != nil {
				writeResolveError(w, err, log)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}

// StaticScope returns a middleware that gives every request the configured selection, ignoring the headers
func StaticScope(sel Selection, dir Directory, log logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope, err := sel.Resolve(r.Context(), dir)
			if err != nil {
				writeResolveError(w, err, log)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}

// WithScope stores the scope in the context
func WithScope(ctx context.Context, scope inventory.Scope) context.Context {
	return context.WithValue(ctx, contextScope, scope)
}

// FromContext returns the session scope stored in the context
func FromContext(ctx context.Context) (inventory.Scope, error) {
	scope, ok := ctx.Value(contextScope).(inventory.Scope)
	if !ok {
		return inventory.Scope{}, ErrNoScope
	}
	return scope, nil
}

// Email returns the email of the IAP authenticated user, if any
func Email(ctx context.Context) string {
	email, _ := ctx.Value(contextEmail).(string)
	return email
}

func writeResolveError(w http.ResponseWriter, err error, log logrus.FieldLogger) {
	switch {
	case errors.Is(err, inventory.ErrUnknownRole), errors.Is(err, inventory.ErrMissingAnalyst):
		http.Error(w, jsonError("Invalid session selection"), http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, jsonError("Unknown analyst"), http.StatusBadRequest)
	default:
		log.WithError(err).Error("resolving session scope")
		http.Error(w, jsonError("Unable to resolve session, try again later"), http.StatusServiceUnavailable)
	}
}

// jsonError returns a JSON error message
func jsonError(msg string) string {
	return fmt.Sprintf(`{"error": "%s"}`, msg)
}
