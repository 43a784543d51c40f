// Command create-wpnuxt scaffolds a WPNuxt project. It is the same as
// `wpnuxi init`.
package main

import (
	"os"

	"github.com/wpnuxt/wpnuxi/internal/cli"
)

func main() {
	os.Exit(cli.Exit(cli.ExecuteCreate(), os.Stderr))
}
