package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export records as JSONL",
		Long:  "Write every record (optionally one bank) to stdout, one JSON object per line, in seq order.",
		Run:   runExport,
	}

	cmd.Flags().StringP("bank", "b", "", "Bank to export (default: all)")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	bank, _ := cmd.Flags().GetString("bank")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	records, err := s.ExportAll(cmd.Context(), bank)
	if err != nil {
		exitErr("export", err)
	}

	for _, r := range records {
		b, _ := json.Marshal(r)
		fmt.Println(string(b))
	}
}
