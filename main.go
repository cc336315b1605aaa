package main

import (
	"os"

	"github.com/abhisek/addmath/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
