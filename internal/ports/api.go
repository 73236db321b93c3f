package ports

import (
	"context"

	apperrors "github.com/target/catalog-admin/internal/errors"
)

// APIRequest describes one JSON exchange with the remote API.
type APIRequest struct {
	Method string
	// Path is appended to the API base URL, e.g. "/productos/12".
	Path string
	// Body is JSON-encoded when non-nil.
	Body any
	// Policy maps a failed exchange onto an AppError.
	Policy apperrors.Policy
}

// APIClient performs API exchanges. A 2xx JSON body is decoded into out; every
// returned error is an *errors.AppError.
type APIClient interface {
	Do(ctx context.Context, req APIRequest, out any) error
}
