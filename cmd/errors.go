package cmd

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// errNoInput is returned when neither a file nor piped stdin is given.
var errNoInput = errors.New("no input provided")

// exitError carries a process exit code for errors that are not failures
// of the program itself, such as schema violations.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// FormatError renders err for the terminal with any attached hints.
func FormatError(err error) string {
	var sb strings.Builder
	sb.WriteString("Error: ")
	sb.WriteString(err.Error())
	for _, h := range errors.GetAllHints(err) {
		sb.WriteString("\nhint: ")
		sb.WriteString(h)
	}
	return sb.String()
}
