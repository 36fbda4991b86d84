// Package server runs the optional HTTP endpoint that exposes search
// metrics while a search is in progress.
//
// Routes:
//
//	GET /metrics   Prometheus exposition of the process registry
//	GET /healthz   liveness probe, always "ok"
package server
