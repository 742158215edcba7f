package main

import "github.com/intelliwave/intelliwave/internal/commands"

func main() {
	commands.Execute()
}
