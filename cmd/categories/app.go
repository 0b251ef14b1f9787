package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.design/x/clipboard"

	"github.com/milk9111/categories/category"
	"github.com/milk9111/categories/config"
	"github.com/milk9111/categories/ecs"
	"github.com/milk9111/categories/ecs/entity"
	"github.com/milk9111/categories/ecs/system"
)

type app struct {
	cfg    *config.Config
	log    *zap.Logger
	out    io.Writer
	copyFn func(string) error
}

func newApp(cfg *config.Config, log *zap.Logger, out io.Writer) *app {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &app{cfg: cfg, log: log, out: out, copyFn: copyToClipboard}
}

func (a *app) rootCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "Author the category table and query tagged entities",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "asset",
				Aliases: []string{"a"},
				Usage:   "path to the category table asset (overrides CATEGORIES_ASSET)",
			},
		},
		Commands: []*cli.Command{
			a.viewCommand(),
			a.newCommand(),
			a.addCommand(),
			a.removeCommand(),
			a.maskCommand(),
			a.decodeCommand(),
			a.watchCommand(),
			a.queryCommand(),
			a.scriptCommand(),
		},
	}
}

func (a *app) assetPath(cmd *cli.Command) string {
	if p := cmd.String("asset"); p != "" {
		return p
	}
	if a.cfg.Categories.AssetPath != "" {
		return a.cfg.Categories.AssetPath
	}
	return category.DefaultAssetPath
}

func (a *app) loadTable(cmd *cli.Command) (*category.Table, string, error) {
	path := a.assetPath(cmd)
	table, err := category.LoadTable(path)
	if err != nil {
		return nil, path, err
	}
	return table, path, nil
}

// loadScene builds the scene file into a fresh world with a category system
// attached and runs one update tick.
func (a *app) loadScene(cmd *cli.Command) (*ecs.World, *system.CategorySystem, error) {
	table, _, err := a.loadTable(cmd)
	if err != nil {
		return nil, nil, err
	}
	scenePath := cmd.String("scene")
	if scenePath == "" {
		return nil, nil, fmt.Errorf("--scene is required")
	}
	spec, err := entity.LoadScene(scenePath)
	if err != nil {
		return nil, nil, err
	}

	var regLog *zap.Logger
	if a.cfg.Categories.Debug {
		regLog = a.log
	}
	w := ecs.NewWorld()
	sys := system.NewCategorySystem(w, category.NewRegistry(table, system.WorldObjects(w), regLog))
	w.AddSystem(sys)
	if _, err := entity.BuildScene(w, table, spec); err != nil {
		return nil, nil, err
	}
	w.Update()
	return w, sys, nil
}

func copyToClipboard(text string) error {
	if err := clipboard.Init(); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
