// Package api implements the ClickUp Integration web API.
//
// Routes:
//
//	GET /api/health          service status, timestamp, service name, version
//	GET /api/health/clickup  ClickUp connectivity (teams found) or 500 with the reason
//	GET /healthz             liveness check
//	GET /readyz              readiness check
//	GET /healthz/detailed    readiness plus ClickUp check
//
// Every request carries a correlation ID. An inbound X-Correlation-ID header
// is kept, otherwise a UUID is generated, and the value is echoed on the
// response and attached to the request log lines.
package api
