// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application from this configuration: the
// listen address, the request body limit and the API key that protects the
// booking intake endpoints. An empty API key leaves the API open, which is only
// meant for local development.
package server
