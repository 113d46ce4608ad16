package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fastygo/nexus/domain"
	taskUC "github.com/fastygo/nexus/usecase/task"
)

func newTaskCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks visible to the logged in user",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := rt.open(cmd); err != nil {
				return err
			}
			return rt.requireSession()
		},
	}
	cmd.AddCommand(
		newTaskAddCmd(rt),
		newTaskListCmd(rt),
		newTaskShowCmd(rt),
		newTaskUpdateCmd(rt),
		newTaskDeleteCmd(rt),
		newTaskCommentCmd(rt),
		newTaskHistoryCmd(rt),
	)
	return cmd
}

func newTaskAddCmd(rt *runtime) *cobra.Command {
	var input domain.TaskInput
	var status, priority string
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task owned by the logged in user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Title = args[0]
			input.Status = domain.TaskStatus(status)
			input.Priority = domain.TaskPriority(priority)

			created, err := rt.app.Tasks.Create(cmd.Context(), input)
			if err != nil {
				return err
			}
			return printTask(rt, cmd.OutOrStdout(), created)
		},
	}
	cmd.Flags().StringVarP(&input.Description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&status, "status", string(domain.StatusPending), "pending, in-progress or completed")
	cmd.Flags().StringVar(&priority, "priority", string(domain.PriorityMedium), "low, medium or high")
	cmd.Flags().StringVar(&input.DueDate, "due", "", "Due date (YYYY-MM-DD)")
	return cmd
}

func newTaskListCmd(rt *runtime) *cobra.Command {
	var filter taskUC.Filter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visible tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := rt.app.Tasks.Filter(filter)
			return rt.print(cmd.OutOrStdout(), tasks, func(w io.Writer) {
				if len(tasks) == 0 {
					fmt.Fprintln(w, "No tasks found.")
					return
				}
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tPRIORITY\tDUE\tOWNER")
				for _, t := range tasks {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.Status, t.Priority, t.DueDate, t.OwnerName)
				}
				tw.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&filter.Status, "status", "all", "Filter by status")
	cmd.Flags().StringVarP(&filter.Search, "search", "s", "", "Case-insensitive title search")
	return cmd
}

func newTaskShowCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := rt.app.Tasks.Get(args[0])
			if task == nil {
				return domain.ErrTaskNotFound
			}
			return printTask(rt, cmd.OutOrStdout(), task)
		},
	}
}

func newTaskUpdateCmd(rt *runtime) *cobra.Command {
	var title, description, status, priority, due string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("status") {
				s := domain.TaskStatus(status)
				patch.Status = &s
			}
			if flags.Changed("priority") {
				p := domain.TaskPriority(priority)
				patch.Priority = &p
			}
			if flags.Changed("due") {
				patch.DueDate = &due
			}

			updated, err := rt.app.Tasks.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			if updated == nil {
				return domain.ErrTaskNotFound
			}
			return printTask(rt, cmd.OutOrStdout(), updated)
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&status, "status", "", "New status")
	cmd.Flags().StringVar(&priority, "priority", "", "New priority")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD)")
	return cmd
}

func newTaskDeleteCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			removed, err := rt.app.Tasks.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return domain.ErrTaskNotFound
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newTaskCommentCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <text>",
		Short: "Add a comment to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comment, err := rt.app.Tasks.AddComment(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if comment == nil {
				return domain.ErrTaskNotFound
			}
			return rt.print(cmd.OutOrStdout(), comment, func(w io.Writer) {
				fmt.Fprintf(w, "Comment %s added\n", comment.ID)
			})
		},
	}
}

func newTaskHistoryCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the activity recorded for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if rt.app.Tasks.Get(args[0]) == nil {
				return domain.ErrTaskNotFound
			}
			return printActivity(rt, cmd.OutOrStdout(), rt.app.Activity.History(args[0]))
		},
	}
}

func printTask(rt *runtime, w io.Writer, t *domain.Task) error {
	return rt.print(w, t, func(w io.Writer) {
		fmt.Fprintf(w, "%s  %s\n", t.ID, t.Title)
		fmt.Fprintf(w, "  status:   %s\n", t.Status)
		fmt.Fprintf(w, "  priority: %s\n", t.Priority)
		if t.DueDate != "" {
			fmt.Fprintf(w, "  due:      %s\n", t.DueDate)
		}
		fmt.Fprintf(w, "  owner:    %s\n", t.OwnerName)
		if t.Description != "" {
			fmt.Fprintf(w, "\n  %s\n", t.Description)
		}
		for _, c := range t.Comments {
			fmt.Fprintf(w, "\n  [%s] %s: %s", c.CreatedAt.Format("2006-01-02 15:04"), c.UserName, c.Text)
		}
		if len(t.Comments) > 0 {
			fmt.Fprintln(w)
		}
	})
}
