package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/duetasks/internal/commands"
	"github.com/sandeepkv93/duetasks/internal/model"
	"github.com/sandeepkv93/duetasks/internal/scheduler"
	"github.com/sandeepkv93/duetasks/internal/update"
)

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:   "duetasks",
		Short: "Task list with due dates and daily reminders",
		Long: `duetasks keeps a local task list with optional due dates.

Run without a subcommand to open the terminal UI. Overdue tasks are
reminded once a day; tasks due today once during the morning window.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), flags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "Path to config.toml (default $XDG_CONFIG_HOME/duetasks/config.toml)")
	root.PersistentFlags().BoolVar(&flags.ephemeral, "ephemeral", false, "Keep tasks in memory only for this run")

	root.AddCommand(
		newAddCmd(&flags, stdout, stderr),
		newListCmd(&flags, stdout, stderr),
		newToggleCmd(&flags, stdout, stderr),
		newRmCmd(&flags, stdout, stderr),
		newCheckCmd(&flags, stdout, stderr),
		newNotifyCmd(&flags, stdout, stderr),
	)
	return root
}

func runTUI(ctx context.Context, flags globalFlags) error {
	env, err := setup(ctx, flags, nil)
	if err != nil {
		return err
	}
	defer env.Close()

	mode, _ := model.ParseFilterMode(env.cfg.DefaultFilter)
	program := tea.NewProgram(update.NewModel(ctx, env.app, update.WithFilter(mode)), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

// withEnv runs fn against a CLI runtime that logs to stderr.
func withEnv(cmd *cobra.Command, flags *globalFlags, stderr io.Writer, fn func(context.Context, *runtimeEnv) error) error {
	ctx := cmd.Context()
	env, err := setup(ctx, *flags, stderr)
	if err != nil {
		return err
	}
	defer env.Close()
	return fn(ctx, env)
}

func newAddCmd(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var due string
	cmd := &cobra.Command{
		Use:   "add <text>...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, stderr, func(ctx context.Context, env *runtimeEnv) error {
				today := env.app.Today()
				d, err := commands.ParseDue(due, today)
				if err != nil {
					return withCode(exitUser, err)
				}
				text := strings.Join(args, " ")
				t, reminders, ok := env.app.AddTask(ctx, text, d)
				if !ok {
					return withCode(exitUser, errors.New("task text is empty"))
				}
				fmt.Fprintf(stdout, "added %d: %s", t.ID, t.Text)
				if label := model.DueLabel(t, today); label != "" {
					fmt.Fprintf(stdout, " (%s)", label)
				}
				fmt.Fprintln(stdout)
				printReminders(stdout, reminders)
				return nil
			})
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&due, "due", "", "Due date: YYYY-MM-DD, today or tomorrow")
	return cmd
}

func newListCmd(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var (
		filter  string
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, flags, stderr, func(_ context.Context, env *runtimeEnv) error {
				raw := filter
				if raw == "" {
					raw = env.cfg.DefaultFilter
				}
				mode, err := model.ParseFilterMode(raw)
				if err != nil {
					return withCode(exitUser, err)
				}
				all := env.app.Store.All()
				visible := model.Filter(all, mode)
				if jsonOut {
					enc := json.NewEncoder(stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(visible)
				}
				today := env.app.Today()
				for _, t := range visible {
					box := "[ ]"
					if t.Completed {
						box = "[x]"
					}
					line := fmt.Sprintf("%d  %s %s", t.ID, box, t.Text)
					if label := model.DueLabel(t, today); label != "" {
						line += "  " + label
					}
					fmt.Fprintln(stdout, line)
				}
				stats := model.ComputeStats(all, today)
				summary := model.RemainingLabel(stats.Active)
				if stats.Overdue > 0 {
					summary += fmt.Sprintf(", %d overdue", stats.Overdue)
				}
				fmt.Fprintln(stdout, summary)
				return nil
			})
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Filter: all, active or completed (default from config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output tasks as JSON")
	return cmd
}

func newToggleCmd(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task done or not done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, stderr, func(ctx context.Context, env *runtimeEnv) error {
				id, err := commands.ParseID(args[0])
				if err != nil {
					return withCode(exitUser, err)
				}
				reminders, ok := env.app.ToggleTask(ctx, id)
				if !ok {
					return withCode(exitUser, fmt.Errorf("no task with id %d", id))
				}
				t, _ := env.app.Store.Get(id)
				state := "not done"
				if t.Completed {
					state = "done"
				}
				fmt.Fprintf(stdout, "task %d marked %s\n", id, state)
				printReminders(stdout, reminders)
				return nil
			})
		},
		SilenceUsage: true,
	}
}

func newRmCmd(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(cmd, flags, stderr, func(ctx context.Context, env *runtimeEnv) error {
				id, err := commands.ParseID(args[0])
				if err != nil {
					return withCode(exitUser, err)
				}
				reminders, ok := env.app.DeleteTask(ctx, id)
				if !ok {
					return withCode(exitUser, fmt.Errorf("no task with id %d", id))
				}
				fmt.Fprintf(stdout, "task %d deleted\n", id)
				printReminders(stdout, reminders)
				return nil
			})
		},
		SilenceUsage: true,
	}
}

func newCheckCmd(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one reminder pass (for cron)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, flags, stderr, func(ctx context.Context, env *runtimeEnv) error {
				reminders := env.app.RunCheck(ctx)
				fmt.Fprintf(stdout, "%d reminder(s) sent\n", len(reminders))
				printReminders(stdout, reminders)
				return nil
			})
		},
		SilenceUsage: true,
	}
}

func newNotifyCmd(flags *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Enable reminder notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withEnv(cmd, flags, stderr, func(ctx context.Context, env *runtimeEnv) error {
				outcome, reminders := env.app.RequestNotifications(ctx)
				fmt.Fprintln(stdout, outcome.Message())
				printReminders(stdout, reminders)
				return nil
			})
		},
		SilenceUsage: true,
	}
}

func printReminders(w io.Writer, reminders []scheduler.Reminder) {
	for _, r := range reminders {
		fmt.Fprintf(w, "reminder: %s %s\n", r.Notification.Title, r.Notification.Body)
	}
}
