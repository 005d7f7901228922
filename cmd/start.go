package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"model-sync/core/config"
	"model-sync/core/database"
	"model-sync/core/loader"
	"model-sync/core/logger"
	"model-sync/core/middleware/auth"
	"model-sync/core/middleware/rayid"
	"model-sync/core/storage"

	"model-sync/feature/model"
	"model-sync/feature/model/archive"
	"model-sync/feature/model/decode"
	"model-sync/feature/model/session"
	"model-sync/feature/model/source"
	"model-sync/feature/model/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "model-sync/docs/swagger"
)

// @title Model Sync API
// @version 1.0
// @description API for syncing BIM model entities into a relational store.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the model sync server",
	Long:  `Starts the HTTP server exposing the sync session API.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if !cfg.Server.IsValidProfile() {
			logg.Fatal("Unknown source profile", zap.String("profile", cfg.Server.Profile))
		}
		logg = logg.With(zap.String("scope", cfg.Server.Scope))

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		repo := store.NewRepository(db)

		migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancelMigrate()
		if err := repo.Migrate(migrateCtx); err != nil {
			logg.Fatal("Failed to migrate record table", zap.Error(err))
		}

		// 4. Initialize Storage (Optional)
		// Without object storage the service runs fine, it just keeps no
		// snapshot history.
		var arch *archive.Archive
		if cfg.Storage.Endpoint != "" {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Warn("Optional storage connection failed", zap.Error(err))
			} else {
				arch = archive.NewArchive(client, cfg.Storage.Bucket, logg)
				bucketCtx, cancelBucket := context.WithTimeout(context.Background(), 30*time.Second)
				if err := arch.EnsureBucket(bucketCtx); err != nil {
					logg.Warn("Snapshot archive unavailable", zap.Error(err))
					arch = nil
				}
				cancelBucket()
			}
		}

		// 5. Wire the Sync Feature
		profile := decode.GetProfileByName(cfg.Server.Profile)
		fetcher := source.NewClient(cfg.Source)

		var archiver session.Archiver
		var lister model.SnapshotLister
		if arch != nil {
			archiver = arch
			lister = arch
		}
		mgr := session.NewManager(fetcher, repo, archiver, profile, cfg.Sync, logg)
		svc := model.NewService(mgr, lister, cfg.Server.Scope, logg)

		ldr := loader.NewManager()
		ldr.Register(model.NewFeature(svc))

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Request logging via Zap + RayID
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 4. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 5. Load Features
		if err := ldr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
