// Package cli implements the famboard command line interface.
// Commands operate on the local store first; the network is touched only
// by the sync, resolve and refresh paths.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/famboard/internal/client/conflict"
	"github.com/iudanet/famboard/internal/client/data"
	"github.com/iudanet/famboard/internal/client/storage"
	"github.com/iudanet/famboard/internal/client/sync"
)

type Cli struct {
	dataService *data.Service
	manual      conflict.ManualService
	coordinator *sync.Coordinator
	entities    storage.EntityStorage
	metadata    storage.MetadataStorage
}

func New(dataService *data.Service, manual conflict.ManualService, coordinator *sync.Coordinator, entities storage.EntityStorage, metadata storage.MetadataStorage) *Cli {
	return &Cli{
		dataService: dataService,
		manual:      manual,
		coordinator: coordinator,
		entities:    entities,
		metadata:    metadata,
	}
}

// Run dispatches one command with its arguments
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "add":
		return c.runAddTask(ctx, args)
	case "list":
		return c.runListTasks(ctx, args)
	case "done":
		return c.runCompleteTask(ctx, args)
	case "delete":
		return c.runDelete(ctx, args)
	case "event", "events":
		return c.runEvent(ctx, args)
	case "points":
		return c.runPoints(ctx, args)
	case "sync":
		return c.runSync(ctx, args)
	case "status":
		return c.runStatus(ctx)
	case "conflicts":
		return c.runConflicts(ctx)
	case "resolve":
		return c.runResolve(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func PrintUsage() {
	fmt.Println("Famboard Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  famboard [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version          Show version information")
	fmt.Println("  --config PATH      Path to config file (default: $HOME/.famboard.yaml)")
	fmt.Println("  --server URL       Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH          Path to local database (default: famboard-client.db)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  add -title T [-assignee A] [-due DATE] [-points N] [-notes S]")
	fmt.Println("                          Add a task")
	fmt.Println("  list [-status S] [-assignee A]")
	fmt.Println("                          List tasks")
	fmt.Println("  done <id>               Mark a task done")
	fmt.Println("  delete <task|event|points> <id>")
	fmt.Println("                          Delete an entity (soft delete)")
	fmt.Println("  event add|list          Manage calendar events")
	fmt.Println("  points add|list         Manage point transactions")
	fmt.Println("  sync [-retry]           Run a sync cycle (with -retry: backoff on failure)")
	fmt.Println("  status                  Show sync status")
	fmt.Println("  conflicts               List conflicts pending manual review")
	fmt.Println("  resolve <type> <id> <keep_mine|keep_theirs>")
	fmt.Println("                          Resolve a pending conflict")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  famboard add -title 'Take out trash' -assignee kid1 -points 5")
	fmt.Println("  famboard list -status open")
	fmt.Println("  famboard done b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5")
	fmt.Println("  famboard event add -title 'Dentist' -starts 2026-09-01T15:00")
	fmt.Println("  famboard points add -member kid1 -amount 5 -reason 'Trash duty'")
	fmt.Println("  famboard sync -retry")
	fmt.Println("  famboard resolve task b692f5c0-2d88-4aa1-a9e1-13aa6e4976d5 keep_theirs")
}

// parseWhen принимает дату с временем или без
func parseWhen(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q (want RFC3339 or YYYY-MM-DD)", value)
}

func formatWhen(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
