package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/findof1/maw/cli"
	"github.com/findof1/maw/lang"
	"github.com/findof1/maw/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if err != nil {
		var exit *lang.ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}

		log.Error(
			"run failed",
			slog.Any("error", err),
		) // slog automatically uses LogValue()
		os.Exit(1)
	}
}
