// Package dummyjson provides an HTTP client for the DummyJSON products API.
//
// # Endpoints
//
//   - GET {base}/products?limit=N&skip=M: one page plus the remote total
//   - GET {base}/products/{id}: a single product
//
// # Request Handling
//
// All requests:
//   - Use the caller's context for cancellation
//   - Set Accept: application/json and a shelf User-Agent
//   - Have a per-request timeout (10s unless WithTimeout says otherwise)
//
// # Errors
//
// Failures fall into three kinds, tested with errors.Is:
//
//   - ErrCancelled: the context was cancelled before the call finished
//   - ErrNotFound: GetProduct received a 404
//   - ErrTransport: network failure, any other non-2xx status or an
//     undecodable body
//
// Non-2xx responses are returned as *StatusError, which carries the status
// code and matches both ErrTransport and, for 404, ErrNotFound.
package dummyjson
