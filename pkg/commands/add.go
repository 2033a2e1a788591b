package commands

import (
	"context"
	"fmt"
	"io"

	"hexatodo/pkg/store"
)

// HandleAddTodo processes the --add command through the controller in ctx
func HandleAddTodo(ctx context.Context, out io.Writer, description string) error {
	ctl := store.MustFromContext(ctx)
	if err := ctl.Start(ctx); err != nil {
		return err
	}
	added, err := ctl.AddTodo(ctx, description)
	if err != nil {
		return fmt.Errorf("error adding todo: %w", err)
	}
	fmt.Fprintf(out, "Todo added: %s %s\n", added.ID, added.Description)
	return nil
}
