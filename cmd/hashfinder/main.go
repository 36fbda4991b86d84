package main

import (
	"context"
	"os"

	"github.com/agbru/hashfinder/internal/app"
)

func main() {
	application := app.New(os.Stdout, os.Stderr)
	os.Exit(application.Execute(context.Background(), os.Args[1:]))
}
