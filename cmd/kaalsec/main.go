package main

import (
	"context"
	"fmt"
	"os"

	"github.com/doeshing/kaalsec/internal/infrastructure/cli"
)

func main() {
	ctx := context.Background()
	root := cli.NewRootCmd(ctx, cli.Options{Verbose: cli.IsVerbose()})

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
