package main

import "auction-matcher/internal/cli"

func main() {
	cli.Execute()
}
