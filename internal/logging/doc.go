// Package logging hides the logging backend behind a small Logger interface.
// Search, metrics and application code log through it; zerolog backs the
// console and JSON sinks, and a log.Logger adapter serves plain text buffers.
package logging
