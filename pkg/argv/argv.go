// Package argv splits shell input lines into arguments. Double quoted
// substrings are kept together as a single argument.
package argv

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

const quote = "\""

// ErrUnterminatedQuote is returned when a line has an odd number of
// quote characters.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// CountError is returned when a line does not split into the
// expected number of arguments.
type CountError struct {
	Expected int
	Actual   int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("expected %d arguments, got %d", e.Expected, e.Actual)
}

// Fields splits a line into arguments without checking how many
// there are.
//
// Text outside of quotes is split on whitespace and empty pieces are
// dropped. Text inside quotes is used verbatim, so `""` gives one empty
// argument.
func Fields(line string) ([]string, error) {
	var (
		args     = make([]string, 0)
		segments = strings.Split(line, quote)
		inside   = false
	)
	// every quote opens or closes a segment so an even number of
	// quotes always leaves us with an odd number of segments
	if len(segments)%2 == 0 {
		return nil, ErrUnterminatedQuote
	}
	for _, seg := range segments {
		if inside {
			args = append(args, seg)
		} else {
			args = append(args, strings.Fields(seg)...)
		}
		inside = !inside
	}
	return args, nil
}

// Split will split a line into exactly n arguments. A *CountError is
// returned if the line holds any other number of arguments.
func Split(line string, n int) ([]string, error) {
	args, err := Fields(line)
	if err != nil {
		return nil, err
	}
	if len(args) != n {
		return nil, &CountError{Expected: n, Actual: len(args)}
	}
	return args, nil
}

// Command splits off the first word of a line as the command name and
// splits the rest of the line into n arguments.
func Command(line string, n int) (name string, args []string, err error) {
	name, rest := Cut(line)
	args, err = Split(rest, n)
	return name, args, err
}

// Cut returns the first whitespace delimited word of a line and the
// remainder of the line after it.
func Cut(line string) (word, rest string) {
	line = strings.TrimLeft(line, " \t\r\n")
	i := strings.IndexAny(line, " \t\r\n")
	if i < 0 {
		return line, ""
	}
	return line[:i], line[i+1:]
}
