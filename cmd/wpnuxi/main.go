package main

import (
	"os"

	"github.com/wpnuxt/wpnuxi/internal/cli"
)

func main() {
	os.Exit(cli.Exit(cli.Execute(), os.Stderr))
}
