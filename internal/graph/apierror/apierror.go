package apierror

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/secassets/inventory-backend/internal/patch"
	"github.com/secassets/inventory-backend/internal/store"
	"github.com/sirupsen/logrus"
)

var (
	ErrInternal           = Errorf("The server errored out while processing your request, and we didn't write a suitable error message. You might consider that a bug on our side. Please try again, and if the error persists, contact the security operations team.")
	ErrBackendUnavailable = Errorf("The inventory backend could not be reached. This is probably a transient error, please try again.")
	ErrNoSession          = Errorf("No session selected. Pick a role, and an analyst if you are not an administrator.")
)

// Error is an error that can be presented to end-users
type Error struct {
	err error
}

func (e Error) Error() string {
	return e.err.Error()
}

// Errorf formats an error message for end-users. Remember not to leak sensitive information in error messages
func Errorf(format string, args ...any) Error {
	return Error{
		err: fmt.Errorf(format, args...),
	}
}

// PresenterFunc rewrites a GraphQL error before it is sent to the client
type PresenterFunc func(ctx context.Context, err gqlerrors.FormattedError) gqlerrors.FormattedError

// GetErrorPresenter returns a GraphQL error presenter that filters out error messages not intended for end users.
// Filtered errors will be logged with the original error attached.
func GetErrorPresenter(log logrus.FieldLogger) PresenterFunc {
	return func(ctx context.Context, gqlError gqlerrors.FormattedError) gqlerrors.FormattedError {
		err := resolverError(gqlError)
		if err == nil {
			// query syntax and validation errors are meant for the client
			return gqlError
		}

		var apiErr Error
		var validationErr *patch.ValidationError
		switch {
		default:
			log.WithError(err).Errorf("unhandled error in the GraphQL error presenter")
			gqlError.Message = ErrInternal.Error()
		case errors.As(err, &apiErr):
			gqlError.Message = apiErr.Error()
		case errors.As(err, &validationErr):
			gqlError.Message = validationErr.Error()
		case errors.Is(err, store.ErrBackendUnavailable):
			log.WithError(err).Errorf("backend error")
			gqlError.Message = ErrBackendUnavailable.Error()
		case errors.Is(err, store.ErrNotFound):
			gqlError.Message = "Object was not found."
		case errors.Is(err, context.Canceled):
			gqlError.Message = "Request canceled."
		}

		return gqlError
	}
}

// resolverError returns the error returned by a resolver, or nil if the error did not come from a resolver
func resolverError(gqlError gqlerrors.FormattedError) error {
	err := gqlError.OriginalError()
	var located *gqlerrors.Error
	if errors.As(err, &located) {
		return located.OriginalError
	}
	return err
}
