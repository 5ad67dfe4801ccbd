package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"mytodos/internal/cli"
	"mytodos/internal/store"
)

func main() {
	// Root flags (apply to every subcommand)
	defaultFile := os.Getenv("TODO_FILE")
	if defaultFile == "" {
		defaultFile = "./todos.csv"
	}
	file := flag.String("file", defaultFile, "path to the todo file")
	flag.Parse()

	s, err := store.NewFileStore(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "todo: %v\n", err)
		os.Exit(cli.ExitError)
	}

	code := cli.Run(context.Background(), flag.Args(), cli.Options{
		Store:  s,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	})
	s.Close()
	os.Exit(code)
}
