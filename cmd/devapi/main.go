package main

import (
	"fmt"
	"os"

	"maxloyalty.com/backoffice/cli"
)

func main() {
	opts := &cli.ConfigOptions{}
	cmd := cli.ServeCommand(opts)
	cmd.Use = "devapi"
	cli.BindConfigFlags(cmd.Flags(), opts)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
