package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/harrybrwn/gradebook/cmd/internal"
	"github.com/harrybrwn/gradebook/cmd/internal/opts"
	"github.com/harrybrwn/gradebook/internal/roster"
	"github.com/harrybrwn/gradebook/internal/shell"
	"github.com/harrybrwn/gradebook/internal/store"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// All returns all the commands.
func All(globals *opts.Global) []*cobra.Command {
	return []*cobra.Command{
		NewShellCmd(globals),
		newRunCmd(globals),
		newExecCmd(globals),
		newImportCmd(globals),
		newExportCmd(globals),
		newConfigCmd(),
	}
}

// NewShellCmd creates the command for the interactive shell.
func NewShellCmd(globals *opts.Global) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive gradebook shell",
		Long: `Start the interactive gradebook shell. Type 'help' in the
shell for a list of commands and 'exit' to leave.

Arguments are separated by spaces, use double quotes for
arguments that have spaces in them.`,
		Example: `> new-class CS101 fall 01 "Intro to Programming"
> select-class CS101-fall-01
> add-category Homework 40`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(globals, func(db *store.Store) error {
				sh := newShell(cmd, db, globals)
				if f, ok := cmd.InOrStdin().(*os.File); ok && isatty.IsTerminal(f.Fd()) {
					sh.Prompt = Conf.Prompt
				}
				return sh.Run(cmd.Context(), cmd.InOrStdin())
			})
		},
	}
}

func newRunCmd(globals *opts.Global) *cobra.Command {
	var strict bool
	c := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a file of shell commands",
		Long: `Run every line of a file as a shell command. Use '-' to
read commands from standard input. Lines starting with '#'
are comments.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader
			if args[0] == "-" {
				r = cmd.InOrStdin()
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			return withDB(globals, func(db *store.Store) error {
				sh := newShell(cmd, db, globals)
				sh.Strict = strict
				err := sh.Run(cmd.Context(), r)
				if err != nil && strict {
					return &internal.Error{Msg: fmt.Sprintf("%s: %v", args[0], err), Code: 2}
				}
				return err
			})
		},
	}
	c.Flags().BoolVar(&strict, "strict", strict, "stop at the first command that fails")
	return c
}

func newExecCmd(globals *opts.Global) *cobra.Command {
	var class string
	c := &cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Run a single shell command",
		Example: `$ gradebook exec --class CS101-fall-01 grade s1 hw1 9
$ gradebook exec list-classes`,
		Args:      cobra.MinimumNArgs(1),
		ValidArgs: shell.Commands(),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := internal.JoinArgs(args)
			if err != nil {
				return err
			}
			return withDB(globals, func(db *store.Store) error {
				var (
					sh   = newShell(cmd, db, globals)
					sess shell.Session
				)
				if class != "" {
					c, err := db.Class(cmd.Context(), class)
					if err != nil {
						return err
					}
					sess.ClassID = c.ID
				}
				err := sh.Exec(cmd.Context(), &sess, line)
				if err == shell.ErrExit {
					return nil
				}
				return err
			})
		},
	}
	c.Flags().StringVarP(&class, "class", "c", "", "select a class before running the command")
	c.Flags().SetInterspersed(false)
	return c
}

func newImportCmd(globals *opts.Global) *cobra.Command {
	return &cobra.Command{
		Use:   "import <class-id> <roster>",
		Short: "Enroll students from an xlsx or html roster",
		Long: `Enroll all the students from a roster file. Spreadsheets
(.xlsx) use the first sheet and html files use the first
table. The first row should name the 'id', 'name', and
optionally 'username' columns, otherwise the first two
columns are used as the id and name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(globals, func(db *store.Store) error {
				class, err := db.Class(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				n, err := roster.Import(cmd.Context(), db, class.ID, args[1])
				if err != nil {
					return err
				}
				cmd.Printf("Imported %d students into %s.\n", n, class.ID)
				return nil
			})
		},
	}
}

func newExportCmd(globals *opts.Global) *cobra.Command {
	return &cobra.Command{
		Use:   "export <class-id> <file.xlsx>",
		Short: "Write a class gradebook to a spreadsheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(globals, func(db *store.Store) error {
				class, err := db.Class(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err = roster.Export(cmd.Context(), db, class.ID, args[1]); err != nil {
					return err
				}
				cmd.Println("Gradebook written to", args[1])
				return nil
			})
		},
	}
}

func newShell(cmd *cobra.Command, db shell.DB, globals *opts.Global) *shell.Shell {
	sh := shell.New(db, cmd.OutOrStdout(), cmd.ErrOrStderr())
	sh.Color = !(globals.NoColor || Conf.NoColor)
	sh.Precision = Conf.Precision
	return sh
}

// withDB opens the database for the duration of fn.
func withDB(globals *opts.Global, fn func(*store.Store) error) (err error) {
	path := DatabasePath(globals)
	db, err := store.Open(path)
	if err != nil {
		return errors.WithMessage(err, path)
	}
	defer func() {
		if e := db.Close(); e != nil && err == nil {
			err = e
		}
	}()
	log.WithField("db", path).Debug("using database")
	return fn(db)
}
