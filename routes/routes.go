// Package routes wires HTTP handlers onto a gin engine.
//
//   - api.go: versioned API (/v1/*), health checks and middleware
//   - web.go: service index (/, /docs)
package routes
