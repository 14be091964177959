// Package http implements the REST surface of the stand-in remote endpoint.
//
// It exposes the quotes collection (GET and POST /api/quotes), the version
// and health endpoints, and Prometheus metrics. Cross-cutting concerns such
// as request tracing, access logging, response compression and request
// metrics are handled by middleware in this package before requests are
// delegated to the service layer.
package http
