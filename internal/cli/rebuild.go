package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rebuild-index",
		Short: "Rebuild a bank's token index",
		Long:  "Recompute the inverted token index from scratch by scanning all tiers. Idempotent.",
		Run:   runRebuild,
	}

	cmd.Flags().StringP("bank", "b", "", "Bank name (required)")
	cmd.MarkFlagRequired("bank")

	RootCmd.AddCommand(cmd)
}

func runRebuild(cmd *cobra.Command, args []string) {
	bank, _ := cmd.Flags().GetString("bank")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	n, err := s.RebuildIndex(cmd.Context(), bank)
	if err != nil {
		exitErr("rebuild-index", err)
	}

	printOK("REBUILD_INDEX", map[string]interface{}{
		"rebuilt":         true,
		"records_indexed": n,
	})
}
