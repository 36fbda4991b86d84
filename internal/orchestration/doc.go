// Package orchestration runs a search while draining its progress channel and
// turns the outcome into presented results and an exit code. It decouples the
// search engine from presentation via the ProgressReporter and ResultPresenter
// interfaces.
package orchestration
