package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"toggl-track/internal/app"
	"toggl-track/internal/config"
	"toggl-track/internal/track"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:           "toggl-track",
		Short:         "Command-line client for the Toggl Track API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(syncCmd(), currentCmd(), startCmd(), stopCmd(), continueCmd(), projectsCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newSession loads config, configures logging and logs in.
func newSession(ctx context.Context) (*track.Session, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	application, err := app.New(logger, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := application.Session.Login(ctx); err != nil {
		return nil, err
	}
	return application.Session, nil
}

func syncCmd() *cobra.Command {
	var merge bool
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull the full account snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := session.Sync(cmd.Context(), !merge); err != nil {
				return err
			}
			ws, err := session.DefaultWorkspace()
			if err != nil {
				return err
			}
			if ws == nil {
				fmt.Println("synced; default workspace not in snapshot")
				return nil
			}
			entries, err := ws.Entries()
			if err != nil {
				return err
			}
			fmt.Printf("synced workspace %q: %d time entries\n", ws.Name, len(entries))
			return nil
		},
	}
	cmd.Flags().BoolVar(&merge, "merge", false, "merge into the existing snapshot instead of replacing it")
	return cmd
}

func currentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show the running time entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			entry, err := session.FetchCurrentEntry(cmd.Context())
			if err != nil {
				return err
			}
			if entry == nil {
				fmt.Println("no entry running")
				return nil
			}
			fmt.Printf("%q running for %s\n", entry.Description, time.Duration(entry.ActualDuration())*time.Second)
			return nil
		},
	}
}

func startCmd() *cobra.Command {
	var projectID int64
	var tagIDs []int64
	cmd := &cobra.Command{
		Use:   "start <workspace-id> <description>",
		Short: "Start a new time entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			workspaceID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid workspace id %q", args[0])
			}
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			var project *int64
			if projectID != 0 {
				project = &projectID
			}
			entry, err := session.StartEntry(cmd.Context(), workspaceID, args[1], time.Now(), project, tagIDs)
			if err != nil {
				return err
			}
			fmt.Printf("started entry %d\n", entry.ID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&projectID, "project", 0, "project id for the entry")
	cmd.Flags().Int64SliceVar(&tagIDs, "tags", nil, "tag ids for the entry")
	return cmd
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running time entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			entry, err := session.FetchCurrentEntry(cmd.Context())
			if err != nil {
				return err
			}
			if entry == nil {
				fmt.Println("no entry running")
				return nil
			}
			stopped, err := entry.StopEntry(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("stopped entry %d after %s\n", stopped.ID, time.Duration(stopped.Duration)*time.Second)
			return nil
		},
	}
}

func continueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "continue <entry-id>",
		Short: "Start a new entry seeded from a stopped one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid entry id %q", args[0])
			}
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			if err := session.Sync(cmd.Context(), true); err != nil {
				return err
			}
			entry, ok := session.GetEntry(entryID)
			if !ok {
				return fmt.Errorf("entry %d not found in snapshot", entryID)
			}
			fresh, err := entry.ContinueEntry(cmd.Context(), nil)
			if err != nil {
				return err
			}
			fmt.Printf("continued as entry %d\n", fresh.ID)
			return nil
		},
	}
}

func projectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects visible to the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			projects, err := session.FetchProjects(cmd.Context(), 0)
			if err != nil {
				return err
			}
			for _, p := range projects {
				status := "archived"
				if p.Active {
					status = "active"
				}
				fmt.Printf("%d\t%s\t%s\n", p.ID, p.Name, status)
			}
			return nil
		},
	}
}
