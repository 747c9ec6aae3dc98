package main

import "talehub/cmd/cli/command"

func main() {
	command.Execute()
}
