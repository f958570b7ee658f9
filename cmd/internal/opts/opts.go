package opts

import "github.com/spf13/pflag"

// Options is a set of flags.
type Options interface {
	AddToFlagSet(*pflag.FlagSet)
}

// Global holds the flags shared by every command.
type Global struct {
	NoColor bool
	Verbose bool
	// DB is the path to the gradebook database.
	DB string
}

// AddToFlagSet adds the global flags to a flag set.
func (g *Global) AddToFlagSet(set *pflag.FlagSet) {
	set.BoolVar(&g.NoColor, "nocolor", false, "turn off colors")
	set.BoolVarP(&g.Verbose, "verbose", "v", false, "write debug messages to the log")
	set.StringVar(&g.DB, "db", g.DB, "path to the gradebook database")
}
