package main

import (
	"os"

	"blueprintforge/cmd/parse/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
