package main

import (
	"fmt"
	"os"

	"github.com/oakwood-commons/kvtree/cmd"
	"github.com/oakwood-commons/kvtree/pkg/logger"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, cmd.FormatError(err))
	}

	logger.Sync()
	if code := cmd.ExitCode(err); code != 0 {
		os.Exit(code)
	}
}
