package main

import (
	"fmt"
	"os"

	"github.com/harrybrwn/gradebook/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(cmd.ExitCode(err))
	}
}
