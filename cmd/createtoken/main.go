package main

import (
	"fmt"
	"os"

	"maxloyalty.com/backoffice/cli"
)

// go run ./cmd/createtoken --config console.yaml --id 7 --user ana --ttl 24h
func main() {
	opts := &cli.ConfigOptions{}
	cmd := cli.TokenCommand(opts)
	cmd.Use = "createtoken"
	cli.BindConfigFlags(cmd.Flags(), opts)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
