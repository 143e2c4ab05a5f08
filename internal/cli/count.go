package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Show per-tier record counts for a bank",
		Run:   runCount,
	}

	cmd.Flags().StringP("bank", "b", "", "Bank name (required)")
	cmd.MarkFlagRequired("bank")

	RootCmd.AddCommand(cmd)
}

func runCount(cmd *cobra.Command, args []string) {
	bank, _ := cmd.Flags().GetString("bank")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	counts, err := s.Count(cmd.Context(), bank)
	if err != nil {
		exitErr("count", err)
	}

	printOK("COUNT", counts)
}
