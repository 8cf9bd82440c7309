package main

import (
	"os"

	"github.com/cuttestkittensrule/carepartner/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
