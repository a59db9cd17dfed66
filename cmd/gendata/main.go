package main

import "gendata/internal/cli"

func main() {
	cli.Execute()
}
