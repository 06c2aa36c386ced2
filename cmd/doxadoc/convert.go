package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dgallion1/doxadoc/internal/config"
	"github.com/dgallion1/doxadoc/internal/doctree"
	"github.com/dgallion1/doxadoc/internal/pipeline"
	"github.com/dgallion1/doxadoc/internal/render"
)

// ConvertCmd implements the 'convert' command.
type ConvertCmd struct {
	InputFlags `embed:""`

	Output   string `short:"o" help:"Output file, - for stdout" default:"-"`
	Title    string `short:"t" help:"Document title (overrides config)"`
	Config   string `short:"c" help:"YAML file with render options" type:"existingfile"`
	Typedefs bool   `help:"Add a Typedefs section to each group"`
	Unions   bool   `help:"Add a Unions section to each group"`
	Strict   bool   `help:"Fail when any conversion warning was raised"`
}

// Run executes the convert command.
func (cmd *ConvertCmd) Run(g *Global) error {
	cfg := config.Load()
	opts, err := cmd.renderOptions(cfg.Render)
	if err != nil {
		return err
	}

	report := &doctree.Report{}
	set, err := cmd.load(context.Background(), cfg, report)
	if err != nil {
		return err
	}
	res, err := pipeline.Convert(set, report, opts, g.Logger)
	if err != nil {
		return err
	}

	if cmd.Output == "-" {
		if _, err := os.Stdout.WriteString(res.Document); err != nil {
			return err
		}
	} else {
		if err := os.WriteFile(cmd.Output, []byte(res.Document), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		g.Logger.Info("document written", "file", cmd.Output, "groups", len(res.Outline), "warnings", len(res.Warnings))
	}

	if cmd.Strict && len(res.Warnings) > 0 {
		return fmt.Errorf("%d conversion warnings (strict mode)", len(res.Warnings))
	}
	return nil
}

// renderOptions layers the config file and then the flags over base.
func (cmd *ConvertCmd) renderOptions(base render.Options) (render.Options, error) {
	opts := base
	if cmd.Config != "" {
		var err error
		if opts, err = config.LoadRenderFile(cmd.Config, base); err != nil {
			return base, err
		}
	}
	if cmd.Title != "" {
		opts.Title = cmd.Title
	}
	if cmd.Typedefs {
		opts.Typedefs = true
	}
	if cmd.Unions {
		opts.Unions = true
	}
	return opts, nil
}
