package commands

import (
	"fmt"

	"github.com/JNZader/commitlint/internal/lint"
)

// ExitError carries a process exit code out of a command. Err is nil when
// the command already reported the problem on its output.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// failure wraps err as an ExitFailure error.
func failure(err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: lint.ExitFailure, Err: err}
}
