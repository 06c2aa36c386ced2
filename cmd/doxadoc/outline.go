package main

import (
	"context"
	"os"

	"github.com/dgallion1/doxadoc/internal/config"
	"github.com/dgallion1/doxadoc/internal/doctree"
	"github.com/dgallion1/doxadoc/internal/hierarchy"
	"github.com/dgallion1/doxadoc/internal/outline"
)

// OutlineCmd implements the 'outline' command.
type OutlineCmd struct {
	InputFlags `embed:""`
}

// Run resolves the group hierarchy without rendering and prints it.
func (cmd *OutlineCmd) Run(g *Global) error {
	report := &doctree.Report{}
	set, err := cmd.load(context.Background(), config.Load(), report)
	if err != nil {
		return err
	}
	tree, err := hierarchy.NewResolver(g.Logger).Resolve(set, report)
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		g.Logger.Debug("outline warning", "warning", w.String())
	}
	return outline.Write(os.Stdout, outline.Build(tree))
}
