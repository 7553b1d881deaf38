package main

import (
	"context"
	"os"

	_ "github.com/jimmicro/version"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
