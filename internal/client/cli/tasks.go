package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/iudanet/famboard/internal/models"
)

func (c *Cli) runAddTask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	title := fs.String("title", "", "Task title (required)")
	assignee := fs.String("assignee", "", "Family member the task is assigned to")
	due := fs.String("due", "", "Due date (RFC3339 or YYYY-MM-DD)")
	points := fs.Int64("points", 0, "Points awarded on completion")
	notes := fs.String("notes", "", "Free-form notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *title == "" {
		return fmt.Errorf("missing -title. Usage: famboard add -title T [-assignee A] [-due DATE] [-points N] [-notes S]")
	}

	dueDate, err := parseWhen(*due)
	if err != nil {
		return err
	}

	task := &models.Task{
		Title:    *title,
		Assignee: *assignee,
		DueDate:  dueDate,
		Points:   *points,
		Notes:    *notes,
	}

	record, err := c.dataService.CreateTask(ctx, task)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}

	fmt.Printf("Task added: %s\n", record.ID)
	fmt.Println("Run 'famboard sync' to push it to the server")
	return nil
}

func (c *Cli) runListTasks(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	status := fs.String("status", "", "Filter by status (open, in_progress, done)")
	assignee := fs.String("assignee", "", "Filter by assignee")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		tasks []*models.Task
		err   error
	)
	switch {
	case *status != "":
		tasks, err = c.dataService.ListTasksByStatus(ctx, models.TaskStatus(*status))
	case *assignee != "":
		tasks, err = c.dataService.ListTasksByAssignee(ctx, *assignee)
	default:
		tasks, err = c.dataService.ListTasks(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	fmt.Printf("Tasks (%d):\n\n", len(tasks))
	for _, task := range tasks {
		printTask(task)
	}
	return nil
}

func (c *Cli) runCompleteTask(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing task id. Usage: famboard done <id>")
	}

	if err := c.dataService.CompleteTask(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	fmt.Printf("Task %s marked done\n", args[0])
	return nil
}

func (c *Cli) runDelete(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: famboard delete <task|event|points> <id>")
	}

	entityType := models.EntityType(args[0])
	if !entityType.Valid() {
		return fmt.Errorf("unknown entity type: %s (want task, event or points)", args[0])
	}

	if err := c.dataService.Delete(ctx, entityType, args[1]); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	fmt.Printf("Deleted %s %s\n", entityType, args[1])
	return nil
}

func printTask(task *models.Task) {
	marker := " "
	if task.Status == models.TaskStatusDone {
		marker = "x"
	}
	fmt.Printf("[%s] %s  %s\n", marker, task.ID, task.Title)
	details := []string{"status: " + string(task.Status)}
	if task.Assignee != "" {
		details = append(details, "assignee: "+task.Assignee)
	}
	if task.DueDate != nil {
		details = append(details, "due: "+formatWhen(task.DueDate))
	}
	if task.Points != 0 {
		details = append(details, fmt.Sprintf("points: %d", task.Points))
	}
	fmt.Printf("    %s\n", strings.Join(details, ", "))
	if task.Notes != "" {
		fmt.Printf("    notes: %s\n", task.Notes)
	}
}
