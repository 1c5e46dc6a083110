// Command newsroom prints the top items of a few tech news sites.
package main

import (
	"github.com/newsroom-dev/newsroom/internal/cli"
)

func main() {
	if err := cli.Run(); err != nil {
		cli.Exit(err)
	}
}
