package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/tilenav/world/config"
	"github.com/wricardo/tilenav/world/nav"
)

func findCommand() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "search one path on a map and print it",
		ArgsUsage: " ",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "map",
				Usage: "map ID in the maps directory or a path to a map file (default map when empty)",
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "start cell as x,y (defaults to the map spawn)",
			},
			&cli.StringFlag{
				Name:     "to",
				Usage:    "goal cell as x,y",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "budget",
				Usage: "maximum node expansions (0 uses the map setting)",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "print the expansion order",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			mapConfig, err := resolveMap(cmd.String("maps-dir"), cmd.String("map"))
			if err != nil {
				return err
			}

			to, err := parsePosition(cmd.String("to"))
			if err != nil {
				return fmt.Errorf("--to: %w", err)
			}

			var from *nav.Position
			if raw := cmd.String("from"); raw != "" {
				pos, err := parsePosition(raw)
				if err != nil {
					return fmt.Errorf("--from: %w", err)
				}
				from = &pos
			}

			result, err := findPath(cmd.Root().Writer, mapConfig, from, to, int(cmd.Int("budget")), cmd.Bool("trace"))
			if err != nil {
				return err
			}
			if !result.Found {
				return cli.Exit("", 2)
			}
			return nil
		},
	}
}

// parsePosition reads "x,y"
func parsePosition(raw string) (nav.Position, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nav.Position{}, fmt.Errorf("expected x,y, got %q", raw)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(parts[0]))
	y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errX != nil || errY != nil {
		return nav.Position{}, fmt.Errorf("expected integer x,y, got %q", raw)
	}
	return nav.Position{X: x, Y: y}, nil
}

// resolveMap loads ref as a file when it names one, otherwise as a map ID
// in mapsDir. An empty ref selects the maps directory default.
func resolveMap(mapsDir, ref string) (*nav.MapConfig, error) {
	if ref != "" {
		if info, err := os.Stat(ref); err == nil && !info.IsDir() {
			return nav.LoadMapConfig(ref)
		}
	}

	maps, err := config.NewManager(mapsDir)
	if err != nil {
		return nil, err
	}
	if ref == "" {
		return maps.GetDefault(), nil
	}
	return maps.LoadConfig(ref)
}

// findPath runs one search and prints the result with the path drawn on
// the grid: S start, G goal, * waypoints.
func findPath(w io.Writer, mapConfig *nav.MapConfig, from *nav.Position, to nav.Position, budget int, trace bool) (nav.Result, error) {
	grid, err := nav.BuildGrid(mapConfig)
	if err != nil {
		return nav.Result{}, err
	}

	start, ok := nav.SpawnPosition(mapConfig, grid)
	if from != nil {
		start, ok = *from, true
	}
	if !ok {
		return nav.Result{}, fmt.Errorf("map %s has no spawn position", mapConfig.Name)
	}

	overrides := []nav.Option{nav.WithTrace(trace)}
	if budget > 0 {
		overrides = append(overrides, nav.WithIterationBudget(budget))
	}
	finder := nav.NewPathFinder(grid, nav.FinderOptions(mapConfig)...)
	result := finder.Search(start, to, overrides...)

	fmt.Fprintf(w, "Map: %s\n", mapConfig.Name)
	if result.Found {
		fmt.Fprintf(w, "Path %s -> %s: %d steps, cost %.5f, %d/%d expansions\n",
			start, to, len(result.Path), result.Cost, result.Expanded, result.Budget)
	} else {
		fmt.Fprintf(w, "No path %s -> %s: %s (%d/%d expansions)\n",
			start, to, result.Reason, result.Expanded, result.Budget)
	}

	marks := map[nav.Position]rune{}
	for _, p := range result.Path {
		marks[p] = '*'
	}
	if _, present := grid.Lookup(start); present {
		marks[start] = 'S'
	}
	if _, present := grid.Lookup(to); present {
		marks[to] = 'G'
	}
	fmt.Fprintln(w)
	for _, row := range nav.Render(grid, mapConfig, marks) {
		fmt.Fprintln(w, row)
	}

	if trace {
		parts := make([]string, len(result.Trace))
		for i, p := range result.Trace {
			parts[i] = p.String()
		}
		fmt.Fprintf(w, "\nExpanded: %s\n", strings.Join(parts, " "))
	}
	return result, nil
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "validate map files (defaults to every map in the maps directory)",
		ArgsUsage: "[file-or-dir ...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			targets := cmd.Args().Slice()
			if len(targets) == 0 {
				targets = []string{cmd.String("maps-dir")}
			}

			invalid, err := validateMaps(cmd.Root().Writer, targets)
			if err != nil {
				return err
			}
			if invalid > 0 {
				return cli.Exit(fmt.Sprintf("%d invalid map(s)", invalid), 1)
			}
			return nil
		},
	}
}

// validateMaps checks each map file and prints one line per file. It
// returns the number of invalid maps.
func validateMaps(w io.Writer, targets []string) (int, error) {
	var files []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return 0, err
		}
		if !info.IsDir() {
			files = append(files, target)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(target, "*.json"))
		if err != nil {
			return 0, err
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}

	invalid := 0
	for _, file := range files {
		if err := validateMap(file); err != nil {
			fmt.Fprintf(w, "❌ %s: %v\n", filepath.Base(file), err)
			invalid++
			continue
		}
		fmt.Fprintf(w, "✅ %s\n", filepath.Base(file))
	}
	fmt.Fprintf(w, "\n%d map(s) checked, %d invalid\n", len(files), invalid)
	return invalid, nil
}

func validateMap(path string) error {
	mapConfig, err := nav.LoadMapConfig(path)
	if err != nil {
		return err
	}
	grid, err := nav.BuildGrid(mapConfig)
	if err != nil {
		return err
	}
	if _, ok := nav.SpawnPosition(mapConfig, grid); !ok {
		return fmt.Errorf("no spawn position")
	}
	return nil
}
