// cmd/commitlens/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"commitlens/internal/api"
	"commitlens/internal/config"
	"commitlens/internal/database"
	"commitlens/internal/metrics"
	"commitlens/internal/model"
	"commitlens/internal/syncer"
	"commitlens/internal/timeutil"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "commitlens",
	Short:         "Commit history mirror for GitHub, GitLab and Azure DevOps",
	Long:          `commitlens mirrors repositories, branches and commits from hosting providers into PostgreSQL, resolves author identities and flags suspicious commits.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the periodic sync scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := bootstrap(ctx, configPath)
		if err != nil {
			return err
		}
		defer a.close()
		metrics.Register()

		if a.cfg.SyncInterval > 0 {
			go a.syncer.Start(ctx)
		} else {
			a.logger.Info("Scheduled sync disabled", "sync_interval", a.cfg.SyncInterval.String())
		}

		srv := &http.Server{
			Addr:              a.cfg.ListenAddr,
			Handler:           api.NewRouter(a.store, a.syncer, a.resolver, a.logger),
			ReadHeaderTimeout: 10 * time.Second,
		}
		errCh := make(chan error, 1)
		go func() {
			a.logger.Info("HTTP server listening", "addr", a.cfg.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("http server failed: %w", err)
			}
		case <-ctx.Done():
			a.logger.Info("Shutdown signal received. Exiting.")
		}

		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		return srv.Shutdown(shutdownCtx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger := newLogger(cfg.LogLevel)
		if err := database.Migrate(cfg.DBURL); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
		logger.Info("Database migrations applied successfully")
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync repositories, branches and commits once",
	Long: `Run one full sync: refresh repositories and branches on every enabled platform,
then mirror commits of selected repositories within the date window.

Examples:
  commitlens sync                                   # Default window, resuming per branch
  commitlens sync --from 2024-01-01 --to 2024-01-31
  commitlens sync commits --force                   # Reprocess commits already stored`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := commitSyncOptions(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			opts.OnProgress = logProgress(a)
			res, err := a.syncer.SyncAll(ctx, opts)
			if err != nil {
				return err
			}
			return printJSON(res)
		})
	},
}

var syncRepositoriesCmd = &cobra.Command{
	Use:   "repositories",
	Short: "Refresh the repository list of every enabled platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			res, err := a.syncer.SyncRepositories(ctx)
			if err != nil {
				return err
			}
			return printJSON(res)
		})
	},
}

var syncBranchesCmd = &cobra.Command{
	Use:   "branches",
	Short: "Refresh the branches of every selected repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			res, err := a.syncer.SyncBranches(ctx)
			if err != nil {
				return err
			}
			return printJSON(res)
		})
	},
}

var syncCommitsCmd = &cobra.Command{
	Use:   "commits",
	Short: "Mirror commits of selected repositories without refreshing repositories or branches",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := commitSyncOptions(cmd)
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			opts.OnProgress = logProgress(a)
			res, err := a.syncer.SyncCommits(ctx, opts)
			if err != nil {
				return err
			}
			return printJSON(res)
		})
	},
}

var developersCmd = &cobra.Command{
	Use:   "developers",
	Short: "Inspect and curate resolved developers",
}

var developersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List developers with identity and commit counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			devs, err := a.resolver.Developers(ctx)
			if err != nil {
				return err
			}
			return printJSON(devs)
		})
	},
}

var developersResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Group unattributed commit authors into developers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			res, err := a.resolver.Resolve(ctx)
			if err != nil {
				return err
			}
			return printJSON(res)
		})
	},
}

var developersMergeCmd = &cobra.Command{
	Use:   "merge SOURCE_ID TARGET_ID",
	Short: "Move every identity and commit of SOURCE into TARGET and delete SOURCE",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, err := parseID(args[0])
		if err != nil {
			return err
		}
		target, err := parseID(args[1])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			res, err := a.resolver.Merge(ctx, source, target)
			if err != nil {
				return err
			}
			return printJSON(res)
		})
	},
}

var developersRenameCmd = &cobra.Command{
	Use:   "rename ID NAME",
	Short: "Set a developer's display name",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.resolver.Rename(ctx, id, args[1]); err != nil {
				return err
			}
			fmt.Printf("Developer %d renamed to %q\n", id, args[1])
			return nil
		})
	},
}

func setActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.resolver.SetActive(ctx, id, active); err != nil {
					return err
				}
				fmt.Printf("Developer %d active: %t\n", id, active)
				return nil
			})
		},
	}
}

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "Inspect configured platforms",
}

var platformsTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Check connectivity and credentials of every enabled platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			statuses, err := a.syncer.TestPlatforms(ctx)
			if err != nil {
				return err
			}
			return printJSON(statuses)
		})
	},
}

var commitsCmd = &cobra.Command{
	Use:   "commits",
	Short: "Work with stored commits",
}

var commitsAnalyzeCmd = &cobra.Command{
	Use:   "analyze ID",
	Short: "Recompute the heuristic flags of a stored commit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			flags, err := a.syncer.ReanalyzeCommit(ctx, id)
			if err != nil {
				return err
			}
			return printJSON(flags)
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file (default: ./commitlens.yaml)")

	for _, c := range []*cobra.Command{syncCmd, syncCommitsCmd} {
		c.Flags().String("from", "", "Start of the authored date window (YYYY-MM-DD or RFC 3339)")
		c.Flags().String("to", "", "End of the authored date window, inclusive (YYYY-MM-DD or RFC 3339)")
		c.Flags().BoolP("force", "f", false, "Reprocess commits that are already stored")
	}
	syncCmd.AddCommand(syncRepositoriesCmd, syncBranchesCmd, syncCommitsCmd)

	developersCmd.AddCommand(
		developersListCmd,
		developersResolveCmd,
		developersMergeCmd,
		developersRenameCmd,
		setActiveCmd("activate", "Mark a developer active", true),
		setActiveCmd("deactivate", "Mark a developer inactive", false),
	)
	platformsCmd.AddCommand(platformsTestCmd)
	commitsCmd.AddCommand(commitsAnalyzeCmd)

	rootCmd.AddCommand(serveCmd, migrateCmd, syncCmd, developersCmd, platformsCmd, commitsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withApp bootstraps the application for a one-shot command, cancelling on SIGINT or SIGTERM.
func withApp(cmd *cobra.Command, fn func(context.Context, *app) error) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}

func commitSyncOptions(cmd *cobra.Command) (syncer.CommitSyncOptions, error) {
	var opts syncer.CommitSyncOptions
	fromFlag, _ := cmd.Flags().GetString("from")
	toFlag, _ := cmd.Flags().GetString("to")
	opts.Force, _ = cmd.Flags().GetBool("force")

	var err error
	if opts.From, err = timeutil.ParseDate(fromFlag, false); err != nil {
		return opts, fmt.Errorf("invalid --from %q (expected YYYY-MM-DD or RFC 3339)", fromFlag)
	}
	if opts.To, err = timeutil.ParseDate(toFlag, true); err != nil {
		return opts, fmt.Errorf("invalid --to %q (expected YYYY-MM-DD or RFC 3339)", toFlag)
	}
	return opts, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func logProgress(a *app) func(model.ProgressEvent) {
	return func(ev model.ProgressEvent) {
		a.logger.Info("Sync progress",
			"type", ev.Type,
			"run_id", ev.RunID,
			"current", ev.Current,
			"total", ev.Total,
			"platform", ev.Platform,
			"repository", ev.Repository,
			"branch", ev.Branch,
			"message", ev.Message)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
