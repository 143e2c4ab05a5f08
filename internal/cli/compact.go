package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "compact",
		Short: "Compact a bank tier",
		Long:  "Rewrite a tier's record log removing blank entries. Order and non-blank content are preserved; defaults to the archive tier.",
		Run:   runCompact,
	}

	cmd.Flags().StringP("bank", "b", "", "Bank name (required)")
	cmd.Flags().String("tier", "", "Tier to compact: hot, warm, cold, archive (default archive)")
	cmd.MarkFlagRequired("bank")

	RootCmd.AddCommand(cmd)
}

func runCompact(cmd *cobra.Command, args []string) {
	bank, _ := cmd.Flags().GetString("bank")
	tier, _ := cmd.Flags().GetString("tier")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	processed, err := s.Compact(cmd.Context(), bank, tier)
	if err != nil {
		exitErr("compact", err)
	}

	printOK("COMPACT", map[string]interface{}{"processed": processed})
}
