package main

import "github.com/forPelevin/cutline/internal/cli"

func main() {
	cli.Main()
}
