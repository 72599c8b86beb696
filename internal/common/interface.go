package common

import "net/http"

// Common interface for every layer of the transport stack: base client, rate limiter,
// circuit breaker and retry policy.
type EnhancedHttpClient interface {
	// resource is the semantic name that separates circuit breakers and rate-limit windows
	DoResourceRequest(resource string, r *http.Request) (*http.Response, error)
	// resource derived from method + path
	Do(r *http.Request) (*http.Response, error)
}

// Resource names a request by method and path, e.g. GET_/products.
func Resource(r *http.Request) string {
	return r.Method + "_" + r.URL.Path
}

// IsServerFailure reports a 5xx that counts against the backend. A 503 is the degraded
// answer and may still carry a usable body, so it is not one.
func IsServerFailure(resp *http.Response) bool {
	return resp.StatusCode >= http.StatusInternalServerError && resp.StatusCode != http.StatusServiceUnavailable
}
