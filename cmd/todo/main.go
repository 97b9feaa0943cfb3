package main

import (
	"context"
	"fmt"
	"os"

	_ "time/tzdata"

	"todo-list/internal/cli"
)

func main() {
	root := cli.NewRootCommand()

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
