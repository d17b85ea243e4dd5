package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/iudanet/famboard/internal/models"
)

func (c *Cli) runPoints(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: famboard points <add|list> [flags]")
	}

	switch args[0] {
	case "add":
		return c.runAddPoints(ctx, args[1:])
	case "list":
		return c.runListPoints(ctx)
	default:
		return fmt.Errorf("unknown points subcommand: %s", args[0])
	}
}

func (c *Cli) runAddPoints(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("points add", flag.ContinueOnError)
	member := fs.String("member", "", "Family member receiving the points (required)")
	amount := fs.Int64("amount", 0, "Points to add, negative to deduct (required)")
	reason := fs.String("reason", "", "Why the points were granted")
	taskID := fs.String("task", "", "Task the points relate to")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *member == "" {
		return fmt.Errorf("missing -member. Usage: famboard points add -member M -amount N [-reason R] [-task ID]")
	}
	if *amount == 0 {
		return fmt.Errorf("missing -amount (must be non-zero)")
	}

	txn := &models.PointTransaction{
		MemberID: *member,
		Amount:   *amount,
		Reason:   *reason,
		TaskID:   *taskID,
	}

	record, err := c.dataService.AddPoints(ctx, txn)
	if err != nil {
		return fmt.Errorf("failed to add points: %w", err)
	}

	fmt.Printf("Points recorded: %s (%+d for %s)\n", record.ID, *amount, *member)
	return nil
}

func (c *Cli) runListPoints(ctx context.Context) error {
	txns, err := c.dataService.ListPointTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list point transactions: %w", err)
	}

	if len(txns) == 0 {
		fmt.Println("No point transactions found")
		return nil
	}

	// Итоговый баланс по участникам поверх списка транзакций
	totals := make(map[string]int64)

	fmt.Printf("Point transactions (%d):\n\n", len(txns))
	for _, txn := range txns {
		totals[txn.MemberID] += txn.Amount
		fmt.Printf("%s  %+d  %s", txn.GrantedAt.Format("2006-01-02 15:04"), txn.Amount, txn.MemberID)
		if txn.Reason != "" {
			fmt.Printf("  (%s)", txn.Reason)
		}
		fmt.Println()
	}

	fmt.Println("\nTotals:")
	for member, total := range totals {
		fmt.Printf("  %s: %d\n", member, total)
	}
	return nil
}
