package main

import (
	"github.com/keepsakehq/keepsake/internal/cli"
)

func main() {
	cli.Execute()
}
