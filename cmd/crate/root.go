package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/justyntemme/crate/internal/app"
	"github.com/justyntemme/crate/internal/config"
	"github.com/justyntemme/crate/internal/debug"
	"github.com/justyntemme/crate/internal/fs"
	"github.com/justyntemme/crate/internal/library"
	"github.com/justyntemme/crate/internal/store"
)

type options struct {
	root       string
	depth      int
	configPath string
	logFile    string
	noColor    bool
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:          "crate",
		Short:        "Browse and organise a music library in the terminal",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		Example: strings.TrimSpace(`
  # Browse the configured music directories
  crate

  # Browse a directory, loading three levels up front
  crate --root ~/Music/Vinyl --depth 3

  # Refresh the library index without starting the browser
  crate index`),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.noColor {
				lipgloss.SetColorProfile(termenv.Ascii)
			}
			if opts.debug {
				debug.EnableAll()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowser(opts)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/crate/config.json)")
	f.StringVar(&opts.logFile, "log-file", "", "write logs to this file")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colors")
	f.BoolVar(&opts.debug, "debug", false, "enable every debug category (debug builds only)")
	cmd.Flags().StringVar(&opts.root, "root", "", "library root to open instead of the configured ones")
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "levels to load when a root is opened (-1 for everything)")

	cmd.AddCommand(newIndexCmd(opts))
	return cmd
}

func loadConfig(opts *options) (*config.Manager, error) {
	m := config.NewManager()
	var err error
	if opts.configPath != "" {
		err = m.LoadFrom(config.ExpandHome(opts.configPath))
	} else {
		err = m.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if perr := m.ParseError(); perr != nil {
		fmt.Fprintf(os.Stderr, "crate: config has errors, using defaults: %v\n", perr)
	}
	return m, nil
}

func dbPath(opts *options) string {
	if opts.configPath != "" {
		return filepath.Join(filepath.Dir(config.ExpandHome(opts.configPath)), "library.db")
	}
	return filepath.Join(config.DataDir(), "library.db")
}

func openStore(opts *options, cfg config.Config) *store.DB {
	db := store.NewDB(cfg.Library.AudioExtensions)
	if err := db.Open(dbPath(opts)); err != nil {
		log.Printf("Failed to open library index: %v", err)
		return nil
	}
	return db
}

func runBrowser(opts *options) error {
	// The browser owns the terminal, so logs go to a file or nowhere
	if opts.logFile != "" {
		f, err := tea.LogToFile(config.ExpandHome(opts.logFile), "crate")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		debug.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	m, err := loadConfig(opts)
	if err != nil {
		return err
	}

	var root string
	if opts.root != "" {
		if root, err = app.ResolveRoot(opts.root); err != nil {
			return err
		}
	}

	db := openStore(opts, m.Get())
	if db != nil {
		defer db.Close()
	}

	o := app.NewOrchestrator(app.Options{
		Config: m,
		Store:  db,
		Root:   root,
		Depth:  fs.Depth(opts.depth),
	})
	return o.Run()
}

func newIndexCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "index [dir...]",
		Short: "Refresh the library index of the music directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadConfig(opts)
			if err != nil {
				return err
			}
			cfg := m.Get()
			db := store.NewDB(cfg.Library.AudioExtensions)
			if err := db.Open(dbPath(opts)); err != nil {
				return fmt.Errorf("open library index: %w", err)
			}
			defer db.Close()

			// Each dir is indexed under the music directory holding it
			musicDirs := m.Roots()
			dirs := musicDirs
			if len(args) > 0 {
				dirs = make([]string, 0, len(args))
				for _, a := range args {
					d, err := app.ResolveRoot(a)
					if err != nil {
						return err
					}
					dirs = append(dirs, d)
				}
			}

			out := cmd.OutOrStdout()
			for _, d := range dirs {
				root, ok := library.ContainingRoot(musicDirs, d)
				if !ok {
					return fmt.Errorf("index %s: not inside a configured music directory", d)
				}
				start := time.Now()
				n, err := db.IndexPath(root, d)
				if err != nil {
					return fmt.Errorf("index %s: %w", d, err)
				}
				fmt.Fprintf(out, "%s: %s tracks (%s)\n", d, humanize.Comma(int64(n)), time.Since(start).Round(time.Millisecond))
			}
			return nil
		},
	}
}
