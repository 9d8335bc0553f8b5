package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lowcarbdev/heictojpeg/internal"
	"github.com/urfave/cli/v2"
)

func main() {
	// Diagnostics go to stderr so the conversion narration on stdout
	// stays pipeable.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	app := internal.NewApp()
	if err := app.Run(os.Args); err != nil {
		fmt.Println()
		internal.PrintArgError(err)
		fmt.Println()
		_ = cli.ShowAppHelp(cli.NewContext(app, nil, nil))
		fmt.Println()
		internal.PrintArgError(err)
		os.Exit(1)
	}
}
