package main

import (
	"os"

	"github.com/paw-chain/aioracle/x/aioracle/client/cli"
)

func main() {
	if err := cli.NewTreeCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
