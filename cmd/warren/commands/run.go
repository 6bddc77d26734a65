package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dyluth/warren/internal/config"
	"github.com/dyluth/warren/internal/printer"
	"github.com/dyluth/warren/internal/society"
)

var runConfigPath string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a society from a warren.yml configuration",
	Long: `Run a society of agents from a warren.yml configuration.

Builds the blackboard, creates the configured agents, takes out their
class subscriptions, and runs until interrupted. With a redis section in
the configuration, each agent also listens for point-to-point signals on
its own Redis channel.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "warren.yml", "Path to the society configuration")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return printer.Error("Configuration error", err.Error(), []string{
			"Check the file path passed with --config",
			"Validate the YAML against the documented schema",
		})
	}

	engine, err := society.New(cfg)
	if err != nil {
		return printer.Error("Failed to build society", err.Error(), nil)
	}

	printer.Success("society '%s' configured with %d agents\n", cfg.Society, len(cfg.Agents))

	engineCtx, engineCancel := context.WithCancel(context.Background())
	defer engineCancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start engine in background goroutine
	engineDone := make(chan error, 1)
	go func() {
		engineDone <- engine.Start(engineCtx)
	}()

	// Wait for shutdown signal or engine error
	select {
	case sig := <-sigChan:
		log.Printf("[INFO] Received signal: %v", sig)
	case err := <-engineDone:
		if err != nil {
			return printer.Error("Society failed", err.Error(), nil)
		}
		return nil
	}

	// Graceful shutdown: cancel and wait for the engine, bounded.
	engineCancel()
	shutdownTimer := time.NewTimer(5 * time.Second)
	defer shutdownTimer.Stop()

	select {
	case err := <-engineDone:
		if err != nil {
			return printer.Error("Shutdown error", err.Error(), nil)
		}
	case <-shutdownTimer.C:
		log.Printf("[ERROR] Shutdown timed out, exiting")
	}

	printer.Success("society '%s' stopped\n", cfg.Society)
	return nil
}
