package main

import (
	"os"

	"github.com/cpapath/cpapath/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
