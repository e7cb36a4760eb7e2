// Command listmembers browses and curates the members of a list.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rshade/listmembers/internal/cli"
	"github.com/rshade/listmembers/pkg/version"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cli.NewRootCmd(version.String())
	return root.ExecuteContext(ctx)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
