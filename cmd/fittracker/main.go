package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/yusufkecer/fittracker-backend/internal/config"
	"github.com/yusufkecer/fittracker-backend/internal/db"
	"github.com/yusufkecer/fittracker-backend/internal/handler"
	"github.com/yusufkecer/fittracker-backend/internal/logger"
	"github.com/yusufkecer/fittracker-backend/internal/nutrition"
	"github.com/yusufkecer/fittracker-backend/internal/server"
	"github.com/yusufkecer/fittracker-backend/internal/service"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

var configPath string

var rootCmd = &cobra.Command{
	Use:   "fittracker",
	Short: "FitTracker API server",
	Long: `FitTracker tracks workouts, meals and calorie targets.

Run without a subcommand to start the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the database and serve the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE:  runMigrate,
}

var foodsCmd = &cobra.Command{
	Use:   "foods [query]",
	Short: "Print the nutrition table, optionally filtered by name",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFoods,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "fittracker.yaml", "path to the YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, foodsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads and validates config and builds the logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	zap.ReplaceGlobals(log)
	return cfg, log, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	database, err := db.Connect(cfg, log)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.DBDriver, log); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	var mailer handler.Mailer
	if cfg.EmailAPIKey != "" {
		mailer = service.NewEmailService(cfg.EmailAPIKey, cfg.EmailFrom)
	} else {
		log.Warn("EMAIL_API_KEY is not set, password reset mail is disabled")
		mailer = service.NewLogMailer(log)
	}

	srv, err := server.New(cfg, database, mailer, log)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", zap.String("addr", httpServer.Addr), zap.String("driver", cfg.DBDriver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		srv.Drain()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	database, err := db.Connect(cfg, log)
	if err != nil {
		return err
	}
	defer database.Close()

	return db.RunMigrations(database, cfg.DBDriver, log)
}

func runFoods(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) == 1 {
		query = args[0]
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join([]string{"NAME", "UNIT", "KCAL", "PROTEIN", "CARBS", "FATS"}, "\t"))
	for _, f := range nutrition.DefaultCatalog().Search(query) {
		fmt.Fprintf(tw, "%s\t%s\t%g\t%g\t%g\t%g\n", f.Name, f.Unit, f.Calories, f.Protein, f.Carbs, f.Fats)
	}
	return tw.Flush()
}
