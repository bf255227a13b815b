package main

import (
	"github.com/turtacn/coursehub/cmd/cli"
)

// main delegates to the cobra command tree in package cli.
func main() {
	cli.Execute()
}
