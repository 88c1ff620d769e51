package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var detectJSON bool

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Probe the machine for known folders",
	Long: `Probe the machine for user-profile folders, cloud-sync folders, and
known application folders, and print what was found. The result is also
persisted so the daemon can reuse it.`,
	RunE: runDetect,
}

func init() {
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "emit findings as JSON")
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	eng, err := newOneShotEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	detected := eng.RunDetection(ctx)
	if detectJSON {
		return json.NewEncoder(os.Stdout).Encode(detected)
	}

	if len(detected) == 0 {
		fmt.Println("No known folders detected")
		return nil
	}

	for category, paths := range detected {
		fmt.Printf("%s:\n", category)
		for _, p := range paths {
			fmt.Printf("  %s (%s, %s)\n", p.Path, p.Source, p.Language)
		}
	}
	return nil
}
