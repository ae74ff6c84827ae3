// Package api implements the smart house HTTP REST API and WebSocket event stream.
//
// This package provides:
//   - REST endpoints for house, room and device CRUD
//   - WebSocket hub broadcasting change events to subscribed clients
//   - Middleware stack (request ID, logging, recovery, CORS, body limit, request deadline)
//   - Health and pool metrics endpoints
//   - TLS support for production deployments
//
// # Architecture
//
// Each request runs router -> handler -> home.Repository -> connection pool.
// Successful mutations emit a home.Event to the WebSocket hub and, when
// configured, to an MQTT publisher and a state history recorder.
//
// # Errors
//
// Failures are returned as {"status", "code", "message"}. Repository errors are
// mapped by kind: not found 404, conflict 409, unavailable 503, anything else 500.
//
// # Graceful Degradation
//
// MQTT and InfluxDB are optional. When they are missing or down the API keeps
// serving requests and only logs the lost events.
package api
