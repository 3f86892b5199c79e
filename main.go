package main

import (
	"github.com/brightside-developer/brightbase-gen/cmd/commands"
)

var (
	version = "dev" // will be set during build
)

func main() {
	// Set the version
	commands.Version = version

	// Execute the root command
	commands.Execute()
}
