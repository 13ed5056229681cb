package main

import "mongoschema/internal/cli"

func main() {
	cli.Execute()
}
