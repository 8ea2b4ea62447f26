package main

import "github.com/pfrederiksen/procyclingstats/internal/cli"

func main() {
	cli.Execute()
}
