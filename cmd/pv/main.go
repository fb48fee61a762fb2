package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/careermap/pathview/pkg/config"
	"github.com/careermap/pathview/pkg/export"
	"github.com/careermap/pathview/pkg/graph"
	"github.com/careermap/pathview/pkg/loader"
	"github.com/careermap/pathview/pkg/model"
	"github.com/careermap/pathview/pkg/paths"
	"github.com/careermap/pathview/pkg/persist"
	"github.com/careermap/pathview/pkg/store"
	"github.com/careermap/pathview/pkg/strategy"
	"github.com/careermap/pathview/pkg/ui"
	"github.com/careermap/pathview/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	version := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", defaultConfigPath(), "Path to config file")
	depth := flag.Int("depth", 0, "Initial depth (0 = full depth)")
	profile := flag.String("profile", "", "Profile context carried into path descriptions")
	exportPath := flag.String("export", "", "Write a snapshot (.svg/.png/.json) and exit")
	strategyID := flag.String("strategy", "", "With -export: snapshot this alternative path instead of the graph")
	saveName := flag.String("save", "", "Save the loaded tree to the database under this name and exit")
	listSaved := flag.Bool("list", false, "List saved trees and exit")
	watch := flag.Bool("watch", true, "Reload when the payload file changes")
	flag.Parse()

	if *help {
		fmt.Println("Usage: pv [options] <tree.json>")
		fmt.Println("\nAn interactive viewer for career/skill trees.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *version {
		fmt.Println("pv version 0.1.0")
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *listSaved {
		if err := runList(cfg.Persist.DBPath); err != nil {
			fmt.Printf("Error listing saved trees: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if flag.NArg() != 1 {
		fmt.Println("Usage: pv [options] <tree.json>")
		os.Exit(2)
	}
	payloadPath := flag.Arg(0)

	tree, err := loader.LoadTree(payloadPath)
	if err != nil {
		fmt.Printf("Error loading tree: %v\n", err)
		os.Exit(1)
	}

	g, err := graph.Convert(tree)
	if err != nil {
		fmt.Printf("Error converting tree: %v\n", err)
		os.Exit(1)
	}

	scorer := strategy.NewScorer().WithVocabulary(cfg.Vocabulary.Demand, cfg.Vocabulary.Innovation)
	gen := paths.NewGenerator(scorer, rand.New(rand.NewSource(time.Now().UnixNano())))

	if *saveName != "" {
		db, err := persist.OpenDB(cfg.Persist.DBPath)
		if err != nil {
			fmt.Printf("Error opening database: %v\n", err)
			os.Exit(1)
		}
		id, err := db.SaveTree(*saveName, "career", *profile, tree)
		db.Close()
		if err != nil {
			fmt.Printf("Error saving tree: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Saved tree #%d (%s)\n", id, *saveName)
		os.Exit(0)
	}

	if *exportPath != "" {
		if err := runExport(g, gen, cfg, *exportPath, *strategyID, *depth, *profile, tree.Label); err != nil {
			fmt.Printf("Error exporting: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *exportPath)
		os.Exit(0)
	}

	session := store.NewWithGenerator(gen)
	if err := session.InitializeTree(g, *profile); err != nil {
		fmt.Printf("Error initializing session: %v\n", err)
		os.Exit(1)
	}
	if err := session.EnableAutoRecalculation(*cfg.AutoRecalculate); err != nil {
		fmt.Printf("Error applying config: %v\n", err)
		os.Exit(1)
	}
	if *depth > 0 {
		if err := session.UpdateDepth(*depth); err != nil {
			fmt.Printf("Error applying depth: %v\n", err)
			os.Exit(1)
		}
	} else if cfg.DefaultDepth > 0 {
		if err := session.UpdateDepth(cfg.DefaultDepth); err != nil {
			fmt.Printf("Error applying depth: %v\n", err)
			os.Exit(1)
		}
	}

	var db *persist.DB
	if cfg.Persist.DBPath != "" {
		db, err = persist.OpenDB(cfg.Persist.DBPath)
		if err != nil {
			// Notes and saving are optional; run without them.
			fmt.Printf("Warning: notes disabled: %v\n", err)
		} else {
			defer db.Close()
		}
	}

	m := ui.NewModel(session, db, tree.Label, exportDir(payloadPath), cfg.DebounceWindow())
	p := tea.NewProgram(m, tea.WithAltScreen())

	if *watch {
		sw, err := watcher.NewSourceWatcher(payloadPath, cfg.DebounceWindow())
		if err != nil {
			fmt.Printf("Warning: watch disabled: %v\n", err)
		} else {
			defer sw.Close()
			sw.Start(func() {
				reloaded, err := loader.LoadTree(payloadPath)
				if err != nil {
					return
				}
				rg, err := graph.Convert(reloaded)
				if err != nil {
					return
				}
				p.Send(ui.ReloadMsg{Graph: rg, Profile: *profile})
			}, nil)
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running pathview: %v\n", err)
		os.Exit(1)
	}
}

// runExport renders a headless snapshot, optionally of one alternative path.
func runExport(g model.FlowGraph, gen *paths.Generator, cfg config.Config, out, strategyID string, depth int, profile, title string) error {
	maxDepth := g.MaxDepth()
	if depth <= 0 || depth > maxDepth {
		depth = maxDepth
	}

	snapshot := g
	var alts []model.AlternativePath
	if strategyID != "" {
		if !strategy.ID(strategyID).IsValid() {
			return fmt.Errorf("unknown strategy %q", strategyID)
		}
		generated := gen.Generate(g, depth, profile)
		found := false
		for _, p := range generated {
			if p.ID == strategyID {
				snapshot = model.FlowGraph{Nodes: p.Nodes, Edges: p.Edges}
				title = fmt.Sprintf("%s - %s", title, p.Name)
				found = true
			}
		}
		if !found {
			return fmt.Errorf("strategy %q produced no path at depth %d", strategyID, depth)
		}
	} else {
		snapshot = graph.FilterByDepth(g, depth)
		alts = gen.Generate(g, depth, profile)
	}

	return export.SaveSnapshot(export.SnapshotOptions{
		Path:   out,
		Graph:  snapshot,
		Title:  title,
		Width:  cfg.Export.Width,
		Height: cfg.Export.Height,
		Paths:  alts,
	})
}

// runList prints the saved-tree index, newest first.
func runList(dbPath string) error {
	db, err := persist.OpenDB(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	trees, err := db.ListTrees()
	if err != nil {
		return err
	}
	if len(trees) == 0 {
		fmt.Println("No saved trees.")
		return nil
	}
	for _, t := range trees {
		fmt.Printf("%4d  %-8s  %-30s  %s\n", t.ID, t.TreeType, t.Name, t.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pathview/config.yaml"
	}
	return filepath.Join(home, ".pathview", "config.yaml")
}

// exportDir puts TUI snapshot exports next to the payload.
func exportDir(payloadPath string) string {
	dir := filepath.Dir(payloadPath)
	if dir == "" {
		return "."
	}
	return dir
}
