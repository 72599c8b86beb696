package fdapi

import (
	"errors"
	"net/http"

	local_errors "github.com/RassulYunussov/fdapi/internal/errors"
	"github.com/RassulYunussov/fdapi/normalize"
)

func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func IsKind(err error, kind normalize.Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

func IsUnauthorized(err error) bool {
	return IsKind(err, normalize.KindUnauthorized)
}

func IsRateLimited(err error) bool {
	return IsKind(err, normalize.KindRateLimited)
}

func IsTimeout(err error) bool {
	return IsKind(err, normalize.KindTimeout)
}

func IsServiceDegraded(err error) bool {
	return IsKind(err, normalize.KindServiceDegraded)
}

func IsHttp5xxStatusError(err error) bool {
	if e, ok := AsError(err); ok && e.Status >= http.StatusInternalServerError {
		return true
	}
	return errors.Is(err, local_errors.ErrHttp5xxStatus)
}
