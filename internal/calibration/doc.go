// Package calibration measures the host's single-worker hash rate and derives
// the worker check interval that keeps cancellation latency near a target.
// Results are cached in a per-host profile so later searches reuse them.
package calibration
