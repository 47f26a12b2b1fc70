// Command pica filters, selects, formats and lints PICA+ records.
package main

import (
	"os"

	"github.com/roach88/pica/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
