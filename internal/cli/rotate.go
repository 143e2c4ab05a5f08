package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Run a rotation pass over a bank",
		Long:  "Move overflow records downward one tier at a time per the configured thresholds. Rotation relocates; it never deletes.",
		Run:   runRotate,
	}

	cmd.Flags().StringP("bank", "b", "", "Bank name (required)")
	cmd.MarkFlagRequired("bank")

	RootCmd.AddCommand(cmd)
}

func runRotate(cmd *cobra.Command, args []string) {
	bank, _ := cmd.Flags().GetString("bank")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.Rotate(cmd.Context(), bank); err != nil {
		exitErr("rotate", err)
	}

	counts, err := s.Count(cmd.Context(), bank)
	if err != nil {
		exitErr("count", err)
	}

	printOK("ROTATE", counts)
}
