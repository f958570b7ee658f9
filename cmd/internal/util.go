package internal

import (
	"strings"

	"github.com/pkg/errors"
)

// Error is an error with an exit code.
type Error struct {
	Msg  string
	Code int
}

func (e *Error) Error() string {
	return e.Msg
}

// ExitCode gets the exit status that should be used for an error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var e *Error
	if errors.As(err, &e) && e.Code != 0 {
		return e.Code
	}
	return 1
}

// JoinArgs joins command line arguments back into a single shell
// line, quoting any argument that would not survive being split
// on whitespace.
func JoinArgs(args []string) (string, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		if strings.Contains(a, `"`) {
			return "", errors.Errorf("argument %q cannot contain a quote", a)
		}
		if a == "" || strings.ContainsAny(a, " \t\r\n") {
			parts[i] = `"` + a + `"`
		} else {
			parts[i] = a
		}
	}
	return strings.Join(parts, " "), nil
}
