package session

import (
	"context"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

const iapIssuer = "https://cloud.google.com/iap"

type validator func(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)

// ValidateIAPJWT returns a middleware that validates the X-Goog-IAP-JWT-Assertion header before the session
// headers are read. It authenticates the caller only, the selected role is still not verified.
func ValidateIAPJWT(aud string) Middleware {
	return validateIAPJWT(aud, idtoken.Validate)
}

func validateIAPJWT(aud string, validate validator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			payload, err := validate(r.Context(), r.Header.Get("X-Goog-IAP-JWT-Assertion"), aud)
			if err != nil {
				http.Error(w, jsonError("Invalid JWT token"), http.StatusUnauthorized)
				return
			}

			if time.Unix(payload.IssuedAt, 0).After(time.Now().Add(30 * time.Second)) {
				http.Error(w, jsonError("JWT token is in the future"), http.StatusUnauthorized)
				return
			}

			if payload.Issuer != iapIssuer {
				http.Error(w, jsonError("Invalid JWT token issuer"), http.StatusUnauthorized)
				return
			}

			_, email, _ := strings.Cut(r.Header.Get("X-Goog-Authenticated-User-Email"), ":")
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextEmail, email)))
		})
	}
}
