package main

import "github.com/splitdeck/splitdeck/internal/cli"

func main() {
	cli.Execute()
}
