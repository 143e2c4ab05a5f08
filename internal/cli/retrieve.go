package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tierstore/tierstore/internal/model"
	"github.com/tierstore/tierstore/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "retrieve [query]",
		Short: "Retrieve records from a bank",
		Long:  "Retrieve records matching the query, ranked across tiers. An empty query returns everything.",
		Run:   runRetrieve,
	}

	cmd.Flags().StringP("bank", "b", "", "Bank name (required)")
	cmd.Flags().IntP("limit", "l", 20, "Max results")

	cmd.MarkFlagRequired("bank")

	RootCmd.AddCommand(cmd)
}

func runRetrieve(cmd *cobra.Command, args []string) {
	bank, _ := cmd.Flags().GetString("bank")
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	results, err := s.Retrieve(cmd.Context(), store.RetrieveParams{
		Bank:  bank,
		Query: query,
		Limit: limit,
	})
	if err != nil {
		exitErr("retrieve", err)
	}
	if results == nil {
		results = []model.Record{}
	}

	printOK("RETRIEVE", map[string]interface{}{"results": results})
}
