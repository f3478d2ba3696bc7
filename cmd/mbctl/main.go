package main

import "github.com/mcoot/minesboomer/internal/cli"

func main() {
	cli.Execute()
}
