package apperrors

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI sequences used when reporting errors.
// It keeps this package free of any dependency on the ui package.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleSearchError writes a human-readable description of a search failure
// and returns the matching exit code.
//
// Parameters:
//   - err: The error returned by the search (nil is a success).
//   - duration: How long the search ran before failing.
//   - out: The writer for the error report.
//   - colors: The color provider used to highlight the message.
//
// Returns:
//   - int: The exit code for the failure.
func HandleSearchError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}

	code := ExitCodeFor(err)
	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration.Round(time.Millisecond))
	}

	var workerErr WorkerError
	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "%sSearch timed out%s%s.\n", colors.Yellow(), suffix, colors.Reset())
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sSearch canceled%s%s.\n", colors.Yellow(), suffix, colors.Reset())
	case ExitErrorWorker:
		errors.As(err, &workerErr)
		fmt.Fprintf(out, "%sSearch aborted: worker %d terminated abnormally%s: %v%s\n",
			colors.Red(), workerErr.Worker, suffix, workerErr.Cause, colors.Reset())
	default:
		fmt.Fprintf(out, "%sError%s: %v%s\n", colors.Red(), suffix, err, colors.Reset())
	}
	return code
}
