package argv

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		line string
		n    int
		exp  []string
	}{
		{`"New Category" 10`, 2, []string{"New Category", "10"}},
		{`"a" "b"`, 2, []string{"a", "b"}},
		{`alice bob`, 2, []string{"alice", "bob"}},
		{`   alice    bob  `, 2, []string{"alice", "bob"}},
		{"alice\tbob\n", 2, []string{"alice", "bob"}},
		{``, 0, []string{}},
		{`   `, 0, []string{}},
		{`""`, 1, []string{""}},
		{`x "" y`, 3, []string{"x", "", "y"}},
		{`"a""b"`, 2, []string{"a", "b"}},
		{`hw1 "Read chapter 1" 10 Homework`, 4, []string{"hw1", "Read chapter 1", "10", "Homework"}},
		{`"  spaced  out  "`, 1, []string{"  spaced  out  "}},
		{`before"inside"after`, 3, []string{"before", "inside", "after"}},
		{`CS101 fall 01 "Intro to Programming"`, 4, []string{"CS101", "fall", "01", "Intro to Programming"}},
	}
	for _, tt := range tests {
		args, err := Split(tt.line, tt.n)
		if err != nil {
			t.Errorf("Split(%q, %d): %v", tt.line, tt.n, err)
			continue
		}
		if len(args) != len(tt.exp) {
			t.Errorf("Split(%q) gave %d args, want %d", tt.line, len(args), len(tt.exp))
			continue
		}
		if len(args) > 0 && !reflect.DeepEqual(args, tt.exp) {
			t.Errorf("Split(%q) = %q, want %q", tt.line, args, tt.exp)
		}
	}
}

func TestSplit_CountError(t *testing.T) {
	tests := []struct {
		line             string
		expected, actual int
	}{
		{`alice bob`, 3, 2},
		{`"a b c"`, 3, 1},
		{``, 1, 0},
		{`one two three four`, 2, 4},
		{`"" ""`, 0, 2},
	}
	for _, tt := range tests {
		args, err := Split(tt.line, tt.expected)
		if err == nil {
			t.Errorf("expected an error for %q, got %q", tt.line, args)
			continue
		}
		var cerr *CountError
		if !errors.As(err, &cerr) {
			t.Errorf("expected a *CountError, got %T", err)
			continue
		}
		if cerr.Expected != tt.expected || cerr.Actual != tt.actual {
			t.Errorf("Split(%q): got expected=%d actual=%d, want expected=%d actual=%d",
				tt.line, cerr.Expected, cerr.Actual, tt.expected, tt.actual)
		}
		if args != nil {
			t.Error("should not return arguments with an error")
		}
	}
	err := &CountError{Expected: 3, Actual: 2}
	if err.Error() != "expected 3 arguments, got 2" {
		t.Errorf("wrong error message: %q", err.Error())
	}
}

func TestSplit_UnterminatedQuote(t *testing.T) {
	for _, line := range []string{
		`"`,
		`alice "bob`,
		`"a" "b`,
		`grade s1 "Quiz 1 10`,
		`"""`,
	} {
		_, err := Split(line, 2)
		if !errors.Is(err, ErrUnterminatedQuote) {
			t.Errorf("Split(%q): got %v, want %v", line, err, ErrUnterminatedQuote)
		}
		if _, err = Fields(line); !errors.Is(err, ErrUnterminatedQuote) {
			t.Errorf("Fields(%q): got %v, want %v", line, err, ErrUnterminatedQuote)
		}
	}
}

func TestCommand(t *testing.T) {
	name, args, err := Command(`add "New Category" 10`, 2)
	if err != nil {
		t.Fatal(err)
	}
	if name != "add" {
		t.Errorf("got command %q, want %q", name, "add")
	}
	if !reflect.DeepEqual(args, []string{"New Category", "10"}) {
		t.Errorf("wrong args: %q", args)
	}

	name, args, err = Command("  gradebook  ", 0)
	if err != nil {
		t.Fatal(err)
	}
	if name != "gradebook" || len(args) != 0 {
		t.Errorf("got %q %q, want \"gradebook\" and no args", name, args)
	}

	name, _, err = Command("grade alice", 3)
	if name != "grade" {
		t.Errorf("command name should be returned with an error, got %q", name)
	}
	var cerr *CountError
	if !errors.As(err, &cerr) || cerr.Actual != 1 {
		t.Errorf("expected a count error with one argument, got %v", err)
	}
}

func TestCut(t *testing.T) {
	tests := []struct {
		line, word, rest string
	}{
		{"select-class CS101-fall-01", "select-class", "CS101-fall-01"},
		{"  exit", "exit", ""},
		{"", "", ""},
		{"grade\ts1 hw1 9", "grade", "s1 hw1 9"},
		{`add-category "Home work" 10`, "add-category", `"Home work" 10`},
	}
	for _, tt := range tests {
		word, rest := Cut(tt.line)
		if word != tt.word || rest != tt.rest {
			t.Errorf("Cut(%q) = (%q, %q), want (%q, %q)", tt.line, word, rest, tt.word, tt.rest)
		}
	}
}
