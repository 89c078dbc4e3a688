package main

import (
	"fmt"
	"os"

	"github.com/zeu5/dropmind/cmd"
)

func main() {
	rootCommand := cmd.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
