// Package metrics exposes search telemetry as Prometheus collectors on a
// private registry, and reads runtime memory statistics.
package metrics
