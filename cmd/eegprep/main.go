package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"eegprep/internal/infrastructure"
)

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	infrastructure.CloseLogFile()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
