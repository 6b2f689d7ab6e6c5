package main

import (
	"os"

	"volby/internal/volbycli"
)

func main() {
	code := volbycli.Run(os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
