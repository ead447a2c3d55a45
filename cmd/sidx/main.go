// Command sidx inspects typed values and runs secondary index scenarios.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/sidx/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
