package commands

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/harrybrwn/config"
	"github.com/harrybrwn/errs"
	"github.com/harrybrwn/gradebook/cmd/internal/opts"
	"github.com/spf13/cobra"
)

// Config is the layout of the config file.
type Config struct {
	Database  string `yaml:"database"`
	Prompt    string `yaml:"prompt"`
	NoColor   bool   `yaml:"nocolor"`
	LogFile   string `yaml:"log_file"`
	Precision int    `yaml:"precision"`
	Editor    string `yaml:"editor"`
}

// Conf is the global config, defaults are set before the config
// file is read.
var Conf = &Config{
	Prompt:    "> ",
	Precision: 2,
}

// DefaultDatabase is the database filename used when
// no other path is given.
const DefaultDatabase = "gradebook.db"

// DatabasePath finds the database path. The --db flag is used first,
// then the config file, then a file next to the config file, then
// the working directory.
func DatabasePath(globals *opts.Global) string {
	switch {
	case globals != nil && globals.DB != "":
		return globals.DB
	case Conf.Database != "":
		return os.ExpandEnv(Conf.Database)
	}
	if f := config.FileUsed(); f != "" {
		return filepath.Join(filepath.Dir(f), DefaultDatabase)
	}
	return DefaultDatabase
}

func newConfigCmd() *cobra.Command {
	var file, edit bool
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"conf"},
		Long: `Manage the config file. The config file is named
config.yml and is found in $GRADEBOOK_CONFIG or the
default config directory.

	database:  path to the gradebook database
	prompt:    the shell prompt
	nocolor:   turn off colors
	log_file:  path to the log file
	precision: decimal places used for percentages
	editor:    editor used by 'config --edit'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := config.FileUsed()
			if file {
				cmd.Println(f)
				return nil
			}
			if edit {
				if f == "" {
					return errs.New("no config file found")
				}
				editor := Conf.Editor
				if editor == "" {
					editor = os.Getenv("EDITOR")
				}
				if editor == "" {
					return errs.New("no editor set, use the 'editor' key or $EDITOR")
				}
				ex := exec.Command(editor, f)
				ex.Stdout, ex.Stderr, ex.Stdin = os.Stdout, os.Stderr, os.Stdin
				return ex.Run()
			}
			return cmd.Usage()
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use: "get", Short: "Get a config variable",
		Args: cobra.MinimumNArgs(1),
		Run: func(c *cobra.Command, args []string) {
			for _, arg := range args {
				c.Println(config.Get(arg))
			}
		}})
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "edit the config file")
	cmd.Flags().BoolVarP(&file, "file", "f", false, "print the config file path")
	return cmd
}
