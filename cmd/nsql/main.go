package main

import (
	"os"

	"github.com/nsql-lang/nsql/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
