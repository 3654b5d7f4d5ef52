package v0_rest

import "errors"

var (
	ErrBadRequest = errors.New("badRequest") // 400
	ErrIPBlocked  = errors.New("ipBlocked")  // 403
	ErrNotFound   = errors.New("notFound")   // 404
	ErrInternal   = errors.New("Internal")   // 500
)
