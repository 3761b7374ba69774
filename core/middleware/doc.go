// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting the intake endpoints.
//   - rayid: a request id (ray id) for every request, stored in the context
//     and echoed in the response headers for tracing.
//
// RayID is registered first so every later log line carries the id.
package middleware
