package main

import (
	"os"

	"ibc_tool/cmd/ibc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
