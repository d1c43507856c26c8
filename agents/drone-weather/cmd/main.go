package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	droneweather "drone-dashboard/agents/drone-weather"
	"drone-dashboard/shared/ai"
	"drone-dashboard/shared/config"
	"drone-dashboard/shared/events"
	"drone-dashboard/shared/monitoring"
	"drone-dashboard/shared/scheduler"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var (
	configFile string
	once       bool
)

var rootCmd = &cobra.Command{
	Use:          "drone-dashboard",
	Short:        "Drone weather dashboard",
	Long:         `Shows current weather, the hourly and daily forecast and per-drone flight verdicts for a set of cities, with an assistant for free-text questions.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "configuration file (defaults to $CONFIG_FILE or config.yaml)")
	rootCmd.Flags().BoolVar(&once, "once", false, "fetch the default city once, print a report and exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := config.ConfigureLogging(cfg.Logging); err != nil {
		return err
	}
	gin.SetMode(cfg.Server.Mode)

	// Create context that responds to signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	monitor := monitoring.NewMonitor()
	publisher := events.NewPublisher(&cfg.Events)
	dashboard := droneweather.NewDashboard(
		&cfg.Dashboard,
		droneweather.NewWeatherClient(&cfg.Weather),
		time.Duration(cfg.Weather.TimeoutSeconds)*time.Second,
		ai.NewAssistant(&cfg.AI),
		publisher,
	)
	defer dashboard.Close()

	if err := dashboard.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize dashboard: %w", err)
	}

	s := scheduler.New(cfg.Schedule, dashboard, monitor)

	if once {
		return runOnce(ctx, s, dashboard)
	}
	return serve(ctx, cfg, s, dashboard, monitor)
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFile(configFile)
	}
	return config.Load()
}

func runOnce(ctx context.Context, s *scheduler.Scheduler, dashboard *droneweather.Dashboard) error {
	log.Info("Running once...")

	runErr := s.RunOnce(ctx)

	report, err := droneweather.FormatReport(dashboard.Report())
	if err != nil {
		return err
	}
	fmt.Print(report)

	return runErr
}

func serve(ctx context.Context, cfg *config.Config, s *scheduler.Scheduler, dashboard *droneweather.Dashboard, monitor *monitoring.Monitor) error {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: droneweather.NewRouter(dashboard, monitoring.NewHealthHandlers(monitor)),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Dashboard listening on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// first fetch for the default city
	go func() {
		if err := s.RunOnce(ctx); err != nil {
			log.WithError(err).Warn("Initial weather fetch failed")
		}
	}()

	if cfg.Schedule != "" {
		go func() {
			if err := s.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("Scheduler failed")
			}
		}()
	} else {
		log.Info("No refresh schedule configured")
	}

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	return srv.Shutdown(shutdownCtx)
}
