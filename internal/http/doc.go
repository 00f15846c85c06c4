// Package http provides the HTTP client used to talk to the catalog API.
//
// The Client in this package handles:
//   - User-Agent headers
//   - A per-request timeout covering the whole body read
//   - Typed errors for bad statuses and timeouts
//
// # Basic Usage
//
//	client := http.NewClient(90*time.Second, "")
//
//	body, err := client.Get(ctx, searchURL)
//
// # Errors
//
// A response other than 200 OK is reported as *APIError and a request that
// runs past its deadline as *TimeoutError. Callers tell them apart with
// errors.As:
//
//	var timeout *http.TimeoutError
//	if errors.As(err, &timeout) {
//	    fmt.Printf("gave up after %s\n", timeout.Timeout)
//	}
package http
