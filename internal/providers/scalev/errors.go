package scalev

import "errors"

var (
	// ErrNoProducts means every endpoint candidate answered but none had
	// products. An empty catalog, not a system failure.
	ErrNoProducts = errors.New("scalev: no products available")

	// ErrAllEndpointsFailed means every endpoint candidate raised an
	// upstream error. Almost always misconfiguration.
	ErrAllEndpointsFailed = errors.New("scalev: all product endpoints failed")

	// ErrProductNotFound means no product owns the requested variant.
	ErrProductNotFound = errors.New("scalev: product not found")
)
