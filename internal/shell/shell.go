// Package shell is the interactive gradebook shell.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/harrybrwn/gradebook/internal/roster"
	"github.com/harrybrwn/gradebook/internal/store"
	"github.com/harrybrwn/gradebook/pkg/argv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrNoClass is returned by commands that need a class
	// when no class has been selected.
	ErrNoClass = errors.New("no class selected")
	// ErrUnknownCommand is returned for lines that don't
	// start with a known command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrExit is returned by Exec for the exit command.
	ErrExit = errors.New("exit")
)

// DB is the storage used by the shell.
type DB interface {
	roster.Gradebook
	CreateClass(ctx context.Context, c store.Class) (string, error)
	Classes(ctx context.Context) ([]store.ClassSummary, error)
	Class(ctx context.Context, id string) (*store.Class, error)
	AddCategory(ctx context.Context, classID, name string, weight float64) error
	Categories(ctx context.Context, classID string) ([]store.Category, error)
	AddAssignment(ctx context.Context, classID string, a store.Assignment) error
	AddStudent(ctx context.Context, classID string, st store.Student) error
	RecordGrade(ctx context.Context, classID, studentID, assignment string, score float64) error
}

// Session holds the state of one shell session.
type Session struct {
	// ClassID is the selected class, empty when
	// no class is selected.
	ClassID string
}

// Shell reads gradebook commands and runs them.
type Shell struct {
	DB  DB
	Out io.Writer
	Err io.Writer

	// Prompt is printed before reading each line.
	Prompt string
	// Color turns on terminal colors.
	Color bool
	// Precision is the number of decimal places
	// used when printing percentages.
	Precision int
	// Strict makes Run stop at the first error.
	Strict bool
}

// New creates a shell that writes to out and errout.
func New(db DB, out, errout io.Writer) *Shell {
	return &Shell{
		DB:        db,
		Out:       out,
		Err:       errout,
		Precision: 2,
	}
}

// Run reads lines from r and runs each one as a command until
// r is empty or the exit command is given. Errors from commands
// are printed and the shell keeps going unless Strict is set.
func (s *Shell) Run(ctx context.Context, r io.Reader) error {
	var (
		sess    Session
		scanner = bufio.NewScanner(r)
		lineno  = 0
	)
	s.prompt()
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			s.prompt()
			continue
		}
		err := s.Exec(ctx, &sess, line)
		switch {
		case err == ErrExit:
			return nil
		case err != nil:
			log.WithFields(log.Fields{
				"line":  lineno,
				"class": sess.ClassID,
			}).WithError(err).Info("command failed")
			fmt.Fprintf(s.Err, "Error: %v\n", err)
			if s.Strict {
				return errors.WithMessagef(err, "line %d", lineno)
			}
		}
		if err = ctx.Err(); err != nil {
			return err
		}
		s.prompt()
	}
	return scanner.Err()
}

// Exec runs a single command line in a session.
func (s *Shell) Exec(ctx context.Context, sess *Session, line string) error {
	name, rest := argv.Cut(line)
	c, ok := lookup(name)
	if !ok {
		return errors.Wrapf(ErrUnknownCommand, "%q", name)
	}
	if c.class && sess.ClassID == "" {
		return ErrNoClass
	}
	args, err := argv.Split(rest, c.nargs)
	if err != nil {
		return errors.WithMessage(err, c.name)
	}
	log.WithFields(log.Fields{
		"command": c.name,
		"class":   sess.ClassID,
	}).Debug("running command")
	return c.run(s, ctx, sess, args)
}

func (s *Shell) prompt() {
	if s.Prompt != "" {
		fmt.Fprint(s.Out, s.Prompt)
	}
}
