package realtime

import "github.com/Marga-Ghale/charge-tracker/internal/service"

// Error groups the handlers answer with a constant and do not log.
var (
	errInvalidCredentials = []error{service.ErrInvalidCredentials}
	errCaller             = []error{service.ErrUnauthenticated, service.ErrForbidden, service.ErrNotFound}
	errInput              = []error{service.ErrUnauthenticated, service.ErrForbidden, service.ErrNotFound, service.ErrInvalidInput, service.ErrConflict}
)
