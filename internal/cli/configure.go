package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/desinsight/SnapAGENT-filo-sub009/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage filo configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		fmt.Println(cfg.String())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := config.NewLoader(cfgFile)
		if err := loader.Save(config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", loader.GetConfigPath())
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if errs := config.NewValidator().ValidateConfig(cfg); len(errs) > 0 {
			for _, e := range errs {
				fmt.Printf("error: %v\n", e)
			}
			return fmt.Errorf("%d configuration error(s)", len(errs))
		}
		fmt.Println("Configuration is valid")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
