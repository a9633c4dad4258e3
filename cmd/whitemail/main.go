package main

import "github.com/airwl/whitemail/cmd/whitemail/commands"

func main() {
	commands.Execute()
}
