package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list <path>",
	Short: "List a directory with locale-aware ordering",
	Long:  `List a directory's entries, folders first, sorted for the configured locale.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "emit records as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	eng, err := newOneShotEngine()
	if err != nil {
		return err
	}
	defer eng.Close()

	records := eng.GetRealTimeFiles(args[0])
	if records == nil {
		return fmt.Errorf("cannot read directory: %s", args[0])
	}

	if listJSON {
		return json.NewEncoder(os.Stdout).Encode(records)
	}

	for _, record := range records {
		marker := " "
		if record.IsDirectory {
			marker = "d"
		}
		fmt.Printf("%s %10d  %s  %s\n", marker, record.Size, record.ModifiedAt.Format("2006-01-02 15:04"), record.Name)
	}
	return nil
}
