package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/categories/category"
	"github.com/milk9111/categories/ecs/entity"
	"github.com/milk9111/categories/ecs/system"
)

func (a *app) viewCommand() *cli.Command {
	return &cli.Command{
		Name:  "view",
		Usage: "Print the current category table",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			table, path, err := a.loadTable(cmd)
			if err != nil {
				return err
			}
			a.printTable(path, table)
			return nil
		},
	}
}

func (a *app) printTable(path string, table *category.Table) {
	fmt.Fprintf(a.out, "asset: %s\nguid:  %s\n", path, table.GUID())
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tBIT\tNAME")
	for i, name := range table.Names() {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", i, uint32(category.Bit(i)), name)
	}
	_ = tw.Flush()
}

func (a *app) newCommand() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Create a new category table asset (defaults to the built-in names)",
		ArgsUsage: "[names...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "force", Usage: "overwrite an existing asset"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := a.assetPath(cmd)
			if _, err := os.Stat(path); err == nil && !cmd.Bool("force") {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			names := cmd.Args().Slice()
			if len(names) == 0 {
				defaults, err := category.DefaultNames()
				if err != nil {
					return err
				}
				names = defaults
			}
			table, err := category.NewTable(names...)
			if err != nil {
				return err
			}
			if err := table.Save(path); err != nil {
				return err
			}
			a.log.Info("created category table", zap.String("path", path), zap.String("guid", table.GUID()))
			a.printTable(path, table)
			return nil
		},
	}
}

func (a *app) addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Append categories to the table",
		ArgsUsage: "<name> [names...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() == 0 {
				return fmt.Errorf("add: at least one name is required")
			}
			table, path, err := a.loadTable(cmd)
			if err != nil {
				return err
			}
			for _, name := range cmd.Args().Slice() {
				if table, err = table.Add(name); err != nil {
					return err
				}
			}
			if err := table.Save(path); err != nil {
				return err
			}
			a.printTable(path, table)
			return nil
		},
	}
}

func (a *app) removeCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Remove a category from the table",
		ArgsUsage: "<name>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("remove: exactly one name is required")
			}
			table, path, err := a.loadTable(cmd)
			if err != nil {
				return err
			}
			name := cmd.Args().First()
			idx, _ := table.Index(name)
			updated, err := table.Remove(name)
			if err != nil {
				return err
			}
			if idx < updated.Len() {
				a.log.Warn("later categories move down one bit; re-author masks that use them",
					zap.String("removed", name), zap.Strings("shifted", updated.Names()[idx:]))
			}
			if err := updated.Save(path); err != nil {
				return err
			}
			a.printTable(path, updated)
			return nil
		},
	}
}

func (a *app) maskCommand() *cli.Command {
	return &cli.Command{
		Name:      "mask",
		Usage:     "Compute the mask value of a set of categories",
		ArgsUsage: "<names...>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "copy", Aliases: []string{"c"}, Usage: "copy the decimal value to the clipboard"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			table, _, err := a.loadTable(cmd)
			if err != nil {
				return err
			}
			m, err := table.MaskOf(cmd.Args().Slice()...)
			if err != nil {
				return err
			}
			value := fmt.Sprintf("%d", uint32(m))
			fmt.Fprintf(a.out, "%s (%s)\n", value, m)
			if cmd.Bool("copy") {
				if err := a.copyFn(value); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) decodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "decode",
		Usage:     "List the categories set in a mask value",
		ArgsUsage: "<mask>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("decode: exactly one mask is required")
			}
			m, err := category.ParseMask(cmd.Args().First())
			if err != nil {
				return err
			}
			table, _, err := a.loadTable(cmd)
			if err != nil {
				return err
			}
			for _, name := range table.NamesOf(m) {
				fmt.Fprintln(a.out, name)
			}
			if extra := table.Overflow(m); extra != 0 {
				fmt.Fprintf(a.out, "bits past the table (ignored): %s\n", extra)
			}
			return nil
		},
	}
}

func (a *app) watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Re-validate and print the table whenever the asset changes",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := a.assetPath(cmd)
			dir := filepath.Dir(path)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			w, err := category.WatchTable(path)
			if err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			defer w.Close()

			a.log.Info("watching category table", zap.String("path", path))
			for {
				select {
				case <-ctx.Done():
					return nil
				case change, ok := <-w.Events:
					if !ok {
						return nil
					}
					if change.Err != nil {
						a.log.Warn("category table rejected", zap.Error(change.Err))
						fmt.Fprintf(a.out, "invalid: %v\n", change.Err)
						continue
					}
					a.printTable(change.Path, change.Table)
				case err, ok := <-w.Errors:
					if !ok {
						return nil
					}
					a.log.Warn("watch error", zap.Error(err))
				}
			}
		},
	}
}

func sceneFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "scene",
		Aliases:  []string{"s"},
		Usage:    "YAML scene file listing entities and their categories",
		Required: true,
	}
}

func (a *app) queryCommand() *cli.Command {
	return &cli.Command{
		Name:      "query",
		Usage:     "Build a scene and list the entities of a category",
		ArgsUsage: "<category>",
		Flags: []cli.Flag{
			sceneFlag(),
			&cli.BoolFlag{Name: "include-inactive", Aliases: []string{"i"}, Usage: "include inactive entities"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("query: exactly one category is required")
			}
			w, sys, err := a.loadScene(cmd)
			if err != nil {
				return err
			}
			name := cmd.Args().First()
			includeInactive := cmd.Bool("include-inactive")

			if first, ok := sys.FindFirst(name, includeInactive); ok {
				fmt.Fprintf(a.out, "first: %s\n", entity.DisplayName(w, first))
			} else {
				fmt.Fprintln(a.out, "first: none")
			}
			all := sys.FindAll(name, includeInactive)
			names := make([]string, 0, len(all))
			for _, e := range all {
				names = append(names, entity.DisplayName(w, e))
			}
			fmt.Fprintf(a.out, "all (%d): %s\n", len(all), strings.Join(names, ", "))
			return nil
		},
	}
}

func (a *app) scriptCommand() *cli.Command {
	return &cli.Command{
		Name:      "script",
		Usage:     "Run a tengo category query script against a scene",
		ArgsUsage: "<script.tengo>",
		Flags:     []cli.Flag{sceneFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("script: exactly one script file is required")
			}
			src, err := os.ReadFile(cmd.Args().First())
			if err != nil {
				return err
			}
			_, sys, err := a.loadScene(cmd)
			if err != nil {
				return err
			}
			result, err := system.RunCategoryScript(ctx, src, sys)
			if err != nil {
				return err
			}
			if result == nil {
				return nil
			}
			out, err := yaml.Marshal(result)
			if err != nil {
				return fmt.Errorf("script: encode result: %w", err)
			}
			_, err = a.out.Write(out)
			return err
		},
	}
}
