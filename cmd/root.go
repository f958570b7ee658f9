package cmd

import (
	"os"
	"path/filepath"

	"github.com/harrybrwn/config"
	"github.com/harrybrwn/errs"
	"github.com/harrybrwn/gradebook/cmd/commands"
	"github.com/harrybrwn/gradebook/cmd/internal"
	"github.com/harrybrwn/gradebook/cmd/internal/opts"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var version string

// Logger for the cmd package
var Logger = &lumberjack.Logger{
	Filename:   filepath.Join(os.TempDir(), "gradebook.log"),
	MaxSize:    25,  // megabytes
	MaxBackups: 10,  // number of spare files
	MaxAge:     365, // days
	Compress:   false,
}

// ExitCode returns the exit status for an error returned by Execute.
func ExitCode(err error) int {
	return internal.ExitCode(err)
}

// Execute will execute the root comand on the cli
func Execute() (err error) {
	log.SetOutput(Logger)
	log.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	defer Logger.Close()

	config.SetFilename("config.yml")
	config.SetType("yaml")
	config.AddPath("$GRADEBOOK_CONFIG")
	config.AddDefaultDirs("gradebook")
	config.SetConfig(commands.Conf)

	err = config.ReadConfigFile()
	switch err {
	case nil:
		break
	case config.ErrNoConfigDir, config.ErrNoConfigFile:
		log.Debug(err)
	default:
		return errors.WithMessage(err, "could not read config")
	}

	switch configfile := config.FileUsed(); {
	case commands.Conf.LogFile != "":
		Logger.Filename = os.ExpandEnv(commands.Conf.LogFile)
	case configfile != "":
		Logger.Filename = filepath.Join(filepath.Dir(configfile), "logs", "gradebook.log")
	}

	globalFlags := opts.Global{}
	shell := commands.NewShellCmd(&globalFlags)
	root := &cobra.Command{
		Use:           "gradebook <command>",
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       version,
		Short:         "Keep track of classes and weighted grades.",
		Long: `Keep track of classes, students, and weighted grades.

Running gradebook with no command starts the interactive shell.`,
		Args: cobra.NoArgs,
		RunE: shell.RunE,
		PersistentPreRun: func(*cobra.Command, []string) {
			if globalFlags.Verbose {
				log.SetLevel(log.DebugLevel)
			}
			log.WithField("config", config.FileUsed()).Debug("starting")
		},
	}
	globalFlags.AddToFlagSet(root.PersistentFlags())

	root.SetUsageTemplate(commandTemplate)
	root.AddCommand(append(
		commands.All(&globalFlags),
		completionCmd,
	)...)
	err = root.Execute()
	if err != nil {
		log.WithError(err).Error("command failed")
		return errors.WithMessage(err, "Error")
	}
	return err
}

var completionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Print a completion script to stdout.",
	Long: `Use the completion command to generate a script for shell
completion. Note: for zsh you will need to use the command
'compdef _gradebook gradebook' after you source the generated script.`,
	Example:   "$ source <(gradebook completion zsh)",
	ValidArgs: []string{"zsh", "bash", "ps", "powershell", "fish"},
	Aliases:   []string{"comp"},
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		root := cmd.Root()
		out := cmd.OutOrStdout()
		if len(args) == 0 {
			return errors.New("no shell type given")
		}
		switch args[0] {
		case "zsh":
			return root.GenZshCompletion(out)
		case "ps", "powershell":
			return root.GenPowerShellCompletion(out)
		case "bash":
			return root.GenBashCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, false)
		}
		return errs.New("unknown shell type")
	},
}

var commandTemplate = `Usage:
{{if .Runnable}}
	{{.UseLine}}{{end}}{{if gt (len .Aliases) 0}}

Aliases:
	{{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
	{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:
{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
	{{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:

{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:

{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:
{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
	{{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`
