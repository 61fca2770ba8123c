package internaltypes

import "errors"

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrNoFacilities  = errors.New("please select at least one facility")
	ErrNoDates       = errors.New("no dates match the selected filter")
	ErrMissingConfig = errors.New("missing required configuration")
)
