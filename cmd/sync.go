package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"model-sync/core/config"
	"model-sync/core/database"
	"model-sync/core/logger"
	"model-sync/core/reconcile"
	"model-sync/core/storage"
	"model-sync/feature/model/archive"
	"model-sync/feature/model/canonical"
	"model-sync/feature/model/decode"
	"model-sync/feature/model/session"
	"model-sync/feature/model/source"
	"model-sync/feature/model/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncKind   string
	syncRef    string
	applySync  bool
	dryRunSync bool
	yesConfirm bool
)

// syncCmd runs one fetch-diff-apply cycle from the command line.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the source model, diff it against the store and optionally apply",
	Long: `Fetch the source model graph, compute a sync plan against the stored
records and print it. Applying the plan requires --apply plus confirmation.

Examples:
  # Report only (plan is printed, nothing is written)
  model-sync sync

  # Apply with interactive confirmation
  model-sync sync --apply

  # Apply non-interactively
  model-sync sync --apply --yes

  # Element-level sync of a specific snapshot
  model-sync sync --kind element --snapshot-ref model-42 --apply --yes`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncKind, "kind", "assembly", "Entity kind to sync (element, assembly)")
	syncCmd.Flags().StringVar(&syncRef, "snapshot-ref", "", "Model snapshot to fetch (defaults to the configured model)")
	syncCmd.Flags().BoolVar(&applySync, "apply", false, "Apply the computed plan to the store")
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	syncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm the apply (non-interactive)")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if !canonical.IsValidKind(syncKind) {
		return fmt.Errorf("unknown entity kind %q", syncKind)
	}

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	repo := store.NewRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate record table: %w", err)
	}

	// Connect to storage for snapshot archival (optional)
	var archiver session.Archiver
	if cfg.Storage.Endpoint != "" {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			l.Warn("Optional storage connection failed", zap.Error(err))
		} else {
			arch := archive.NewArchive(client, cfg.Storage.Bucket, l)
			if err := arch.EnsureBucket(ctx); err != nil {
				l.Warn("Snapshot archive unavailable", zap.Error(err))
			} else {
				archiver = arch
			}
		}
	}

	profile := decode.GetProfileByName(cfg.Server.Profile)
	fetcher := source.NewClient(cfg.Source)
	mgr := session.NewManager(fetcher, repo, archiver, profile, cfg.Sync, l)
	scope := cfg.Server.Scope

	// Step 1: Fetch and diff (always runs)
	l.Info("Fetching source model",
		zap.String("scope", scope),
		zap.String("kind", syncKind))
	status, err := mgr.Fetch(ctx, scope, canonical.Kind(syncKind), syncRef)
	if err != nil {
		return fmt.Errorf("failed to compute sync plan: %w", err)
	}

	// Step 2: Print report
	plan, err := mgr.Plan(scope)
	if err != nil {
		return fmt.Errorf("failed to read sync plan: %w", err)
	}
	printSyncReport(l, status, plan)

	// Step 3: Check if an apply is requested
	if !applySync {
		l.Info("No apply requested. Use --apply to write the plan to the store.")
		return nil
	}
	if dryRunSync {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if status.Summary.Added+status.Summary.Updated+status.Summary.Removed == 0 {
		l.Info("Store already in sync, nothing to apply.")
		return nil
	}

	// Step 4: Confirm and apply
	if !confirmApply() {
		if _, err := mgr.Cancel(scope); err != nil {
			l.Warn("Failed to discard plan", zap.Error(err))
		}
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	l.Info("Applying plan...")
	status, err = mgr.Apply(ctx, scope, true)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}

	result := status.Result
	l.Info("Sync finished",
		zap.Int("inserted", result.Inserted),
		zap.Int("updated", result.Updated),
		zap.Int("deleted", result.Deleted),
		zap.Int("failed_batches", len(result.FailedBatches)))

	if result.Partial() {
		for _, failure := range result.FailedBatches {
			l.Warn("Failed batch",
				zap.String("stream", string(failure.Stream)),
				zap.Int("start", failure.Start),
				zap.Int("end", failure.End),
				zap.Int("status", failure.Status),
				zap.String("message", failure.Message))
		}
		l.Warn("Some batches failed; re-running sync will retry the outstanding items.")
	}
	return nil
}

// printSyncReport prints the plan summary plus a sample of pending changes.
func printSyncReport(l *zap.Logger, status session.Status, plan *reconcile.Plan) {
	s := status.Summary
	l.Info("Sync plan",
		zap.String("session_id", status.ID),
		zap.String("snapshot_ref", status.SnapshotRef),
		zap.Int("fetched", s.Fetched),
		zap.Int("persisted", s.Persisted),
		zap.Int("added", s.Added),
		zap.Int("updated", s.Updated),
		zap.Int("removed", s.Removed),
		zap.Int("unchanged", s.Unchanged),
	)

	for _, line := range sampleKeys(plan) {
		l.Info("Sample change", zap.String("op", line[0]), zap.String("key", line[1]))
	}
}

// sampleKeys returns up to five pending changes for the report.
func sampleKeys(plan *reconcile.Plan) [][2]string {
	const maxShow = 5
	samples := make([][2]string, 0, maxShow)

	for _, item := range plan.Added {
		if len(samples) == maxShow {
			return samples
		}
		samples = append(samples, [2]string{"add", item.(canonical.Entity).IdentityKey})
	}
	for _, item := range plan.Updated {
		if len(samples) == maxShow {
			return samples
		}
		samples = append(samples, [2]string{"update", item.(canonical.Entity).IdentityKey})
	}
	for _, key := range plan.Removed {
		if len(samples) == maxShow {
			return samples
		}
		samples = append(samples, [2]string{"remove", key})
	}
	return samples
}

// confirmApply prompts the user for confirmation or uses the --yes flag.
func confirmApply() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to apply the plan to the store: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
