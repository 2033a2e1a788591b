package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"hexatodo/pkg/adapters/httpclient"
	"hexatodo/pkg/adapters/localstore"
	"hexatodo/pkg/adapters/memory"
	"hexatodo/pkg/adapters/reactive"
	"hexatodo/pkg/cli"
	"hexatodo/pkg/config"
	"hexatodo/pkg/database"
	"hexatodo/pkg/ports"
	"hexatodo/pkg/store"
	"hexatodo/pkg/ui"
	"hexatodo/pkg/utils"
)

func main() {
	if err := mainInner(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func mainInner(arguments []string) error {
	args, flags, err := cli.ParseArgs(arguments)
	if err != nil {
		return err
	}

	utils.InitLogger(args.Verbose)
	defer utils.CloseLogger()

	cfg, styles, err := config.Load(args.ConfigPath, flags)
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	utils.Log("using %s storage", cfg.Storage.Adapter)

	storage, closeStorage, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	ctx := store.WithController(context.Background(), store.NewController(storage))

	handled, err := cli.HandleCommands(ctx, cli.Env{Storage: storage, Addr: cfg.Server.Addr}, args)
	if handled {
		return err
	}

	// Create and run the Bubble Tea program
	p := tea.NewProgram(ui.NewModel(ctx, cfg, styles), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// openStorage builds the adapter named by storage.adapter
func openStorage(cfg config.Config) (ports.TodoStorage, func(), error) {
	noop := func() {}

	switch cfg.Storage.Adapter {
	case config.AdapterMemory:
		return memory.New(), noop, nil

	case config.AdapterReactive:
		return reactive.New(), noop, nil

	case config.AdapterLocal:
		return localstore.New(cfg.Storage.File, cfg.Storage.Key), noop, nil

	case config.AdapterHTTP:
		client, err := httpclient.New(cfg.API.URL, cfg.API.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return client, noop, nil

	case config.AdapterSQLite, config.AdapterPostgres:
		driver, source := database.DriverSQLite, cfg.Storage.Database
		if cfg.Storage.Adapter == config.AdapterPostgres {
			driver, source = database.DriverPostgres, cfg.Storage.DSN
		}
		db, err := database.ConnectDB(driver, source)
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to database: %w", err)
		}
		if err := database.EnsureSchema(db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("error creating schema: %w", err)
		}
		return database.New(db), func() { db.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown storage adapter %q", cfg.Storage.Adapter)
}
