package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/desinsight/SnapAGENT-filo-sub009/internal/config"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/engine"
	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/resolver"
)

var (
	resolveLocale   string
	resolveUser     string
	resolvePrevious string
	resolveJSON     bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <query>",
	Short: "Resolve a fuzzy path query to absolute paths",
	Long: `Resolve a natural-language folder reference to candidate absolute paths.

Examples:
  filo resolve 다운로드
  filo resolve "바탕화면에 프로젝트 폴더" --locale ko
  filo resolve "my documents" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveLocale, "locale", "", "query locale (e.g. ko, en)")
	resolveCmd.Flags().StringVar(&resolveUser, "user", "", "user id for learned corrections")
	resolveCmd.Flags().StringVar(&resolvePrevious, "previous", "", "previously resolved path for context")
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "emit the full result as JSON")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	eng, err := newOneShotEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	eng.Start(ctx)

	result := eng.Resolve(args[0], resolver.Context{
		Locale:       resolveLocale,
		PreviousPath: resolvePrevious,
		UserID:       resolveUser,
	})

	if resolveJSON {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	fmt.Printf("Stage: %s (confidence %.2f)\n", result.Stage, result.Confidence)
	for _, candidate := range result.Candidates {
		fmt.Println(candidate)
	}
	return nil
}

// newOneShotEngine builds an engine for single commands, quiet by default
func newOneShotEngine() (*engine.Engine, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return engine.New(engine.Config{
		Home:               cfg.Engine.Home,
		Username:           cfg.Engine.Username,
		Platform:           cfg.Engine.Platform,
		WorkingDir:         cfg.Engine.WorkingDir,
		DataDir:            cfg.DataDir,
		DefaultLocale:      cfg.Engine.DefaultLocale,
		Debounce:           time.Duration(cfg.Watcher.Debounce) * time.Millisecond,
		Staleness:          time.Duration(cfg.Watcher.Staleness) * time.Second,
		ResolveCacheTTL:    time.Duration(cfg.Resolver.CacheTTL) * time.Second,
		LearnedThreshold:   cfg.Resolver.LearnedThreshold,
		HeuristicThreshold: cfg.Resolver.HeuristicThreshold,
		NearMatchThreshold: cfg.Resolver.NearMatchThreshold,
		MaxScanDepth:       cfg.Watcher.MaxDepth,
		PersistLearning:    cfg.Learning.Persist,
		Logger:             zerolog.Nop(),
	})
}
