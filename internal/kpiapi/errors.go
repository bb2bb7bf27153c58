package kpiapi

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnreachable reports that the KPI API could not be contacted.
	ErrUnreachable = errors.New("kpi api unreachable")
	// ErrTimeout reports that the KPI API did not answer in time.
	ErrTimeout = errors.New("kpi api timeout")
	// ErrMalformed reports a payload that does not decode into the expected shape.
	ErrMalformed = errors.New("kpi api payload malformed")
)

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("kpi api %s: status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("kpi api %s: status %d: %s", e.Endpoint, e.Status, e.Body)
}

// Failure kinds reported by Classify.
const (
	KindUnreachable = "unreachable"
	KindTimeout     = "timeout"
	KindHTTP        = "http"
	KindMalformed   = "malformed"
	KindCanceled    = "canceled"
	KindUnknown     = "unknown"
)

// Classify maps an error returned by the client to its failure kind.
func Classify(err error) string {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, ErrUnreachable):
		return KindUnreachable
	case errors.As(err, &httpErr):
		return KindHTTP
	case errors.Is(err, ErrMalformed):
		return KindMalformed
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindUnknown
	}
}
