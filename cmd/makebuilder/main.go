package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"makebuilder/internal/anim"
	"makebuilder/internal/config"
	"makebuilder/internal/editor"
	"makebuilder/internal/export"
	"makebuilder/internal/section"
	"makebuilder/internal/store"
	"makebuilder/internal/templates"
	"makebuilder/internal/trace"
	"makebuilder/internal/ui"
)

// flags override the loaded configuration for a single run.
type flags struct {
	pageID    int
	ephemeral bool
	logPath   string
}

func parseFlags() flags {
	var f flags
	flag.IntVar(&f.pageID, "page", 0, "page to edit (overrides page.id)")
	flag.BoolVar(&f.ephemeral, "ephemeral", false, "keep sections and settings in memory only")
	flag.StringVar(&f.logPath, "log", "makebuilder.log", "file to write logs to")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: makebuilder [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Makebuilder arranges the content sections of a page.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()
	if err := run(f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(f flags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if f.pageID > 0 {
		cfg.Page.ID = f.pageID
	}
	if f.ephemeral {
		cfg.Database.Path = ""
	}

	logFile, err := tea.LogToFile(f.logPath, "makebuilder")
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()

	ctx := context.Background()
	tracer, err := trace.Setup(ctx)
	if err != nil {
		log.Printf("main: tracing disabled: %v", err)
		tracer = trace.Nop()
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: trace shutdown: %v", err)
		}
	}()

	catalog, err := loadCatalog(cfg.Templates.Path)
	if err != nil {
		return err
	}

	var (
		persister section.Persister
		settings  ui.SettingsStore = store.NewMemorySettings()
		saved     []section.Section
		db        *sql.DB
	)
	if cfg.Database.Path != "" {
		db, err = store.Open(cfg.Database.Path)
		if err != nil {
			return err
		}
		defer db.Close()
		repo := store.NewSectionRepo(db, cfg.Page.ID)
		saved, err = repo.List(ctx)
		if err != nil {
			return err
		}
		persister = repo
		settings = store.NewSettingsRepo(db, cfg.User.ID)
	}

	exports, err := export.NewStore()
	if err != nil {
		return fmt.Errorf("export store: %w", err)
	}

	var driver anim.Driver = anim.NewTickDriver(cfg.Anim.FPS)
	if cfg.Anim.Instant {
		driver = anim.InstantDriver{}
	}

	app := ui.NewAppModel(ui.AppDeps{
		PageID:   cfg.Page.ID,
		Sections: section.NewCollection(persister),
		Numbers:  section.NewClockNumbers(),
		Catalog:  catalog,
		Editors:  editor.NewRegistry(catalog.Fields),
		Settings: settings,
		Driver:   driver,
		Panel: ui.PanelOptions{
			OpenSpeed:  cfg.Menu.OpenSpeed,
			CloseSpeed: cfg.Menu.CloseSpeed,
			Easing:     cfg.Menu.Easing,
		},
		Scroll: ui.ScrollOptions{
			Duration:  cfg.Scroll.Duration,
			Easing:    cfg.Scroll.Easing,
			Allowance: cfg.Scroll.Allowance(),
		},
		LineHeight: cfg.Stage.LineHeight,
		Tracer:     tracer,
		Renderer:   export.NewRenderer(catalog),
		Exports:    exports,
	})
	defer app.Menu.Close()
	app.Load(saved)
	log.Printf("main: page %d loaded with %d section(s)", cfg.Page.ID, len(saved))

	p := tea.NewProgram(app.AsTeaModel(), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func loadCatalog(path string) (*templates.Catalog, error) {
	if path == "" {
		return templates.Default()
	}
	c, err := templates.Load(path)
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}
	return c, nil
}
