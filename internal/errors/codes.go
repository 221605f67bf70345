package apierrors

import "errors"

// ErrAllSlicesFailed is returned when no dashboard slice could be fetched.
var ErrAllSlicesFailed = errors.New("all dashboard slices failed")

// ErrNoTransport is returned when no push transport could connect.
var ErrNoTransport = errors.New("no push transport available")
