// Command dbcore searches a SQLite item library.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/dbcore/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
