package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/iudanet/famboard/internal/client/sync"
	"github.com/iudanet/famboard/internal/models"
)

func (c *Cli) runSync(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sync", flag.ContinueOnError)
	retry := fs.Bool("retry", false, "Retry with exponential backoff on transient failures")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Println("Starting synchronization...")

	var (
		result *sync.Result
		err    error
	)
	if *retry {
		result, err = c.coordinator.SyncWithRetry(ctx)
	} else {
		result, err = c.coordinator.Sync(ctx, sync.TriggerManual)
	}
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	fmt.Println("Sync completed:")
	fmt.Printf("  Pushed:        %d pending operations\n", result.Pushed)
	fmt.Printf("  Applied:       %d server changes\n", result.Applied)
	fmt.Printf("  Auto-resolved: %d conflicts\n", result.AutoResolved)
	if result.NeedsReview > 0 {
		fmt.Printf("  Needs review:  %d conflicts (run 'famboard conflicts')\n", result.NeedsReview)
	}
	fmt.Printf("  Checkpoint:    %s\n", result.SyncedAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}

func (c *Cli) runStatus(ctx context.Context) error {
	timestamps, err := c.metadata.GetLastSyncTimestamps(ctx)
	if err != nil {
		return fmt.Errorf("failed to read sync checkpoints: %w", err)
	}

	pending, err := c.coordinator.PendingCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to read queue: %w", err)
	}

	conflicts, err := c.manual.ListPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to read conflicts: %w", err)
	}

	fmt.Println("Sync status:")
	for _, entityType := range models.AllEntityTypes {
		checkpoint := "never"
		if ts, ok := timestamps[entityType]; ok && !ts.IsZero() {
			checkpoint = ts.Format("2006-01-02 15:04:05 MST")
		}

		dirty, err := c.entities.GetDirty(ctx, entityType)
		if err != nil {
			return fmt.Errorf("failed to read dirty records: %w", err)
		}

		fmt.Printf("  %-7s last sync: %-25s dirty: %d\n", entityType, checkpoint, len(dirty))
	}
	fmt.Printf("\nQueued operations: %d\n", pending)
	fmt.Printf("Pending conflicts: %d\n", len(conflicts))
	return nil
}
