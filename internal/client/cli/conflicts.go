package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/famboard/internal/client/conflict"
	"github.com/iudanet/famboard/internal/models"
)

func (c *Cli) runConflicts(ctx context.Context) error {
	pending, err := c.manual.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list conflicts: %w", err)
	}

	if len(pending) == 0 {
		fmt.Println("No pending conflicts")
		return nil
	}

	fmt.Printf("Pending conflicts (%d):\n\n", len(pending))
	for _, item := range pending {
		fmt.Printf("%s %s\n", item.Type, item.EntityID)
		fmt.Printf("    detected: %s, versions: local v%d vs server v%d\n",
			item.DetectedAt.Format("2006-01-02 15:04:05"), item.ClientVersion, item.ServerVersion)
		printSides(item)
		fmt.Println()
	}

	fmt.Println("Resolve with: famboard resolve <type> <id> <keep_mine|keep_theirs>")
	return nil
}

func (c *Cli) runResolve(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: famboard resolve <task|event|points> <id> <keep_mine|keep_theirs>")
	}

	entityType := models.EntityType(args[0])
	if !entityType.Valid() {
		return fmt.Errorf("unknown entity type: %s", args[0])
	}

	choice := models.ManualChoice(args[2])
	if choice != models.ChoiceKeepMine && choice != models.ChoiceKeepTheirs {
		return fmt.Errorf("unknown choice: %s (want keep_mine or keep_theirs)", args[2])
	}

	err := c.manual.ResolveManual(ctx, entityType, args[1], choice, nil)
	if errors.Is(err, conflict.ErrConflictSuperseded) {
		fmt.Println("The server changed again while this conflict was pending.")
		fmt.Println("The conflict was refreshed - review it and resolve anew.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to resolve conflict: %w", err)
	}

	fmt.Printf("Conflict on %s %s resolved (%s)\n", entityType, args[1], choice)
	return nil
}

// printSides показывает только расходящиеся поля двух сторон
func printSides(item *models.ConflictRecord) {
	for key, clientVal := range item.ClientFields {
		serverVal, ok := item.ServerFields[key]
		if ok && fmt.Sprint(clientVal) == fmt.Sprint(serverVal) {
			continue
		}
		fmt.Printf("    %s: mine=%v theirs=%v\n", key, clientVal, serverVal)
	}
	for key, serverVal := range item.ServerFields {
		if _, ok := item.ClientFields[key]; !ok {
			fmt.Printf("    %s: mine=<absent> theirs=%v\n", key, serverVal)
		}
	}
}
