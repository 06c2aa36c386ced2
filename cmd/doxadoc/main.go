package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
)

// Global carries state shared by every subcommand.
type Global struct {
	Logger *slog.Logger
}

// CLI is the command-line definition.
type CLI struct {
	Verbose bool `short:"v" help:"Enable verbose logging"`

	Convert ConvertCmd `cmd:"" help:"Convert Doxygen XML output to an AsciiDoc reference manual"`
	Outline OutlineCmd `cmd:"" help:"Print the resolved group outline"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("doxadoc"),
		kong.Description("Doxygen XML to AsciiDoc converter."),
		kong.UsageOnError(),
	)

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
	slog.SetDefault(logger)

	err := ctx.Run(&Global{Logger: logger})
	ctx.FatalIfErrorf(err)
}
