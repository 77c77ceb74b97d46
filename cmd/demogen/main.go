package main

import "github.com/frescopa/demogen/cmd/demogen/commands"

func main() {
	commands.Execute()
}
