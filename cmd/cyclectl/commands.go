package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"meeting_cycle_bot/internal/app"
	"meeting_cycle_bot/internal/domain/calendar"
	"meeting_cycle_bot/internal/domain/cycle"
	"meeting_cycle_bot/internal/infra/config"
	idb "meeting_cycle_bot/internal/infra/database"
	"meeting_cycle_bot/internal/infra/logger"
	"meeting_cycle_bot/internal/infra/seed"

	"github.com/spf13/cobra"
)

// cliApp holds what the subcommands share. It is filled by the root
// command's pre-run from the environment.
type cliApp struct {
	db      *sql.DB
	dialect idb.Dialect
	clients *app.ClientService
	repo    *idb.ClientRepository
}

func (a *cliApp) open(ctx context.Context) error {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return err
	}
	logger.InitWithOutput(cfg, os.Stderr)

	a.db, a.dialect, err = idb.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = idb.NewClientRepository(a.db, a.dialect)
	// The report window and reminder horizon use the bot defaults.
	a.clients = app.NewClientService(a.repo, cfg.Location, 7, 12, logger.Component("cyclectl"))
	return a.clients.Load(ctx)
}

func (a *cliApp) close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
}

func newRootCmd(a *cliApp) *cobra.Command {
	root := &cobra.Command{
		Use:           "cyclectl",
		Short:         "Operate the meeting cycle database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd.Context())
		},
	}

	root.AddCommand(
		newMigrateCmd(a),
		newImportCmd(a),
		newClientsCmd(a),
		newChecklistCmd(a),
		newAttentionCmd(a),
		newRemindersCmd(a),
		newReportCmd(a),
		newStatsCmd(a),
	)
	return root
}

func newMigrateCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Open already applied the migrations.
			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s).\n", a.dialect)
			return nil
		},
	}
}

func newImportCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import clients from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			doc, err := seed.Parse(f)
			if err != nil {
				return err
			}
			res, err := seed.Import(cmd.Context(), a.repo, doc, logger.Component("seed"))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d clients, skipped %d already stored.\n", res.Created, res.Skipped)
			return nil
		},
	}
}

func monthFlag(s string) (calendar.Month, error) {
	if s == "" {
		return calendar.Month{}, nil
	}
	return calendar.Parse(s)
}

func newClientsCmd(a *cliApp) *cobra.Command {
	var category, month, search string
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List clients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cycle.ParseCategory(category)
			if err != nil {
				return err
			}
			m, err := monthFlag(month)
			if err != nil {
				return err
			}
			list := a.clients.List(cycle.Filter{Search: search, Month: m, Category: c})
			fmt.Fprintln(cmd.OutOrStdout(), app.FormatClientList(list, a.clients.Now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", string(cycle.CategoryActive), "all, active, finalized or needs_attention")
	cmd.Flags().StringVar(&month, "month", "", "enrollment month (YYYY-MM)")
	cmd.Flags().StringVar(&search, "search", "", "name or phone digits")
	return cmd
}

func newChecklistCmd(a *cliApp) *cobra.Command {
	var month, filter string
	cmd := &cobra.Command{
		Use:   "checklist",
		Short: "Show the meetings of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := monthFlag(month)
			if err != nil {
				return err
			}
			sub, err := cycle.ParseSubFilter(filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.FormatChecklist(a.clients.Checklist(m, sub)))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month (YYYY-MM), default current")
	cmd.Flags().StringVar(&filter, "filter", "", "all, pending, not_done or rescheduled")
	return cmd
}

func newAttentionCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "attention",
		Short: "List clients with an overdue meeting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), app.FormatAttention(a.clients.Attention(), a.clients.Now()))
			return nil
		},
	}
}

func newRemindersCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "reminders",
		Short: "List pending meetings of the next days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), app.FormatReminders(a.clients.Upcoming(), a.clients.HorizonDays()))
			return nil
		},
	}
}

func newReportCmd(a *cliApp) *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Monthly counts for the next 12 months",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := cycle.ParseReportMode(mode)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.FormatReport(a.clients.Report(m), m))
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(cycle.ReportClosures), "closures or enrollments")
	return cmd
}

func newStatsCmd(a *cliApp) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Headline numbers of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := monthFlag(month)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.FormatOverview(a.clients.Stats(m)))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month (YYYY-MM), default current")
	return cmd
}
