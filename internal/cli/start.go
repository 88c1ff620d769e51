package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/desinsight/SnapAGENT-filo-sub009/internal/config"
	"github.com/desinsight/SnapAGENT-filo-sub009/internal/daemon"
	"github.com/desinsight/SnapAGENT-filo-sub009/internal/logger"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the filo daemon service",
	Long: `Start the filo daemon service. The daemon serves path resolution and
directory listings over the local gateway until stopped.`,
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	pidFile := getPIDFilePath()
	if isRunning(pidFile) {
		return fmt.Errorf("daemon is already running (PID file: %s)", pidFile)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if errs := config.NewValidator().ValidateConfig(cfg); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "config error: %v\n", e)
		}
		return fmt.Errorf("invalid configuration")
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Close()

	d, err := daemon.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create daemon: %w", err)
	}

	return d.Run()
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	home, _ := os.UserHomeDir()
	return logger.New(logger.Config{
		Level:    cfg.Logging.Level,
		File:     cfg.Logging.File,
		Console:  true,
		Pretty:   true,
		MaskHome: home,
		MaxSize:  cfg.Logging.MaxSize,
		MaxAge:   cfg.Logging.MaxAge,
		Compress: cfg.Logging.Compress,
	})
}

func getPIDFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/tmp/filo.pid"
	}
	return filepath.Join(home, ".filo", "filo.pid")
}

func isRunning(pidFile string) bool {
	if _, err := os.Stat(pidFile); os.IsNotExist(err) {
		return false
	}

	data, err := os.ReadFile(pidFile)
	if err != nil {
		return false
	}

	var pid int
	_, err = fmt.Sscanf(string(data), "%d", &pid)
	if err != nil {
		return false
	}

	return processAlive(pid)
}
