package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/iudanet/famboard/internal/models"
)

func (c *Cli) runEvent(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: famboard event <add|list> [flags]")
	}

	switch args[0] {
	case "add":
		return c.runAddEvent(ctx, args[1:])
	case "list":
		return c.runListEvents(ctx)
	default:
		return fmt.Errorf("unknown event subcommand: %s", args[0])
	}
}

func (c *Cli) runAddEvent(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("event add", flag.ContinueOnError)
	title := fs.String("title", "", "Event title (required)")
	location := fs.String("location", "", "Where the event takes place")
	starts := fs.String("starts", "", "Start time (RFC3339 or YYYY-MM-DD)")
	ends := fs.String("ends", "", "End time (RFC3339 or YYYY-MM-DD)")
	assignee := fs.String("assignee", "", "Family member the event concerns")
	notes := fs.String("notes", "", "Free-form notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *title == "" {
		return fmt.Errorf("missing -title. Usage: famboard event add -title T [-location L] [-starts DATE] [-ends DATE]")
	}

	startsAt, err := parseWhen(*starts)
	if err != nil {
		return err
	}
	endsAt, err := parseWhen(*ends)
	if err != nil {
		return err
	}

	event := &models.Event{
		Title:    *title,
		Location: *location,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		Assignee: *assignee,
		Notes:    *notes,
	}

	record, err := c.dataService.CreateEvent(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to add event: %w", err)
	}

	fmt.Printf("Event added: %s\n", record.ID)
	return nil
}

func (c *Cli) runListEvents(ctx context.Context) error {
	events, err := c.dataService.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	if len(events) == 0 {
		fmt.Println("No events found")
		return nil
	}

	fmt.Printf("Events (%d):\n\n", len(events))
	for _, event := range events {
		fmt.Printf("%s  %s\n", event.ID, event.Title)
		fmt.Printf("    starts: %s, ends: %s\n", formatWhen(event.StartsAt), formatWhen(event.EndsAt))
		if event.Location != "" {
			fmt.Printf("    location: %s\n", event.Location)
		}
		if event.Notes != "" {
			fmt.Printf("    notes: %s\n", event.Notes)
		}
	}
	return nil
}
