package main

import "lapclock/internal/cli"

func main() {
	cli.Execute()
}
