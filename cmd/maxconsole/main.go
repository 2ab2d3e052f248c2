package main

import "maxloyalty.com/backoffice/cli"

func main() {
	cli.Execute()
}
