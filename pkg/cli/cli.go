package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"hexatodo/pkg/commands"
	"hexatodo/pkg/ports"
	"hexatodo/pkg/usecases"
	"hexatodo/pkg/utils"
)

// Args represents parsed command line arguments
type Args struct {
	ConfigPath string
	Verbose    bool
	Storage    string
	APIURL     string

	// Todo operations
	AddTodo  string
	NextID   string
	PrevID   string
	RemoveID string
	List     bool

	// REST server
	Serve bool
	Addr  string

	// Database operations
	Purge   bool
	States  []string
	YesFlag bool

	// Import/Export operations
	ImportFile string
	ExportFile string
	TypeFlag   string
}

// ParseArgs parses command line arguments and returns the Args struct
// along with the flag set, so config can bind flags that override it.
func ParseArgs(arguments []string) (*Args, *pflag.FlagSet, error) {
	args := &Args{}
	flags := pflag.NewFlagSet("hexatodo", pflag.ContinueOnError)

	flags.StringVar(&args.ConfigPath, "config", "", "Path to configuration file")
	flags.BoolVarP(&args.Verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&args.Storage, "storage", "", "Storage adapter (memory, local, sqlite, postgres, http, reactive)")
	flags.StringVar(&args.APIURL, "api-url", "", "Base URL of the todo API for the http adapter")

	// Todo operations
	flags.StringVarP(&args.AddTodo, "add", "a", "", "Add a new todo")
	flags.StringVar(&args.NextID, "next", "", "Move the todo with this id to its next state")
	flags.StringVar(&args.PrevID, "prev", "", "Move the todo with this id to its previous state")
	flags.StringVar(&args.RemoveID, "remove", "", "Remove the todo with this id")
	flags.BoolVarP(&args.List, "list", "l", false, "List todos grouped by state")

	flags.BoolVar(&args.Serve, "serve", false, "Serve the configured storage over REST")
	flags.StringVar(&args.Addr, "addr", "", "Listen address for --serve")

	// Database operations
	flags.BoolVar(&args.Purge, "purge", false, "Delete todos, optionally filtered by --state")
	flags.StringSliceVar(&args.States, "state", nil, "Filter by state (TODO, IN_PROGRESS, DONE), repeatable")
	flags.BoolVarP(&args.YesFlag, "yes", "y", false, "Skip confirmation")

	// Import/Export operations
	flags.StringVar(&args.ImportFile, "import", "", "Import todos from file")
	flags.StringVar(&args.ExportFile, "export", "", "Export todos to file")
	flags.StringVar(&args.TypeFlag, "type", "", "Import/export file type (json, txt)")

	if err := flags.Parse(arguments); err != nil {
		return nil, nil, err
	}
	if flags.NArg() > 0 {
		return nil, nil, fmt.Errorf("unexpected arguments: %v", flags.Args())
	}
	return args, flags, nil
}

// Env carries what commands need besides the controller in ctx
type Env struct {
	Storage ports.TodoStorage
	Addr    string
	In      io.Reader
	Out     io.Writer
}

// HandleCommands processes CLI commands and returns true if a command was handled
func HandleCommands(ctx context.Context, env Env, args *Args) (bool, error) {
	if env.In == nil {
		env.In = os.Stdin
	}
	if env.Out == nil {
		env.Out = os.Stdout
	}

	switch {
	case args.AddTodo != "":
		return true, commands.HandleAddTodo(ctx, env.Out, args.AddTodo)
	case args.NextID != "":
		return true, commands.HandleMoveCommand(ctx, env.Out, args.NextID, usecases.Forward)
	case args.PrevID != "":
		return true, commands.HandleMoveCommand(ctx, env.Out, args.PrevID, usecases.Backward)
	case args.RemoveID != "":
		return true, commands.HandleRemoveCommand(ctx, env.Out, args.RemoveID)
	case args.List:
		return true, commands.HandleListCommand(ctx, env.Storage, env.Out)
	case args.Purge:
		states, err := commands.ParseStates(args.States)
		if err != nil {
			return true, err
		}
		return true, commands.HandlePurgeCommand(ctx, env.Storage, env.In, env.Out, states, args.YesFlag)
	case args.ImportFile != "":
		return true, commands.HandleImportCommand(ctx, env.Storage, env.Out, args.ImportFile, args.TypeFlag)
	case args.ExportFile != "":
		exportType := args.TypeFlag
		if exportType == "" {
			exportType = "json"
		}
		return true, commands.HandleExportCommand(ctx, env.Storage, env.Out, args.ExportFile, exportType)
	case args.Serve:
		if !args.Verbose {
			utils.SetOutput(os.Stderr)
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return true, commands.HandleServeCommand(ctx, env.Storage, utils.Logger(), env.Addr)
	}

	// No CLI command was handled
	return false, nil
}
