package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tierstore/tierstore/internal/model"
	"github.com/tierstore/tierstore/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "store [content]",
		Short: "Store a fact in a bank",
		Long:  "Store a fact. Content can be a positional arg or piped via stdin. Duplicate content is a no-op returning the existing id.",
		Run:   runStore,
	}

	cmd.Flags().StringP("bank", "b", "", "Bank name (required)")
	cmd.Flags().String("id", "", "Caller-supplied record id (default: content fingerprint)")
	cmd.Flags().Float64("confidence", 0, "Confidence in [0,1]")
	cmd.Flags().String("verification", "", "Verification level: validated, educated_guess, unknown")
	cmd.Flags().String("source", "", "Source annotation")
	cmd.Flags().String("meta", "", "Opaque metadata")
	cmd.Flags().String("intent", "", "Classifier intent (IDENTITY, PREFERENCE, FACT, ...)")
	cmd.Flags().String("verdict", "", "Classifier verdict (TRUE, THEORY, PREFERENCE, ...)")
	cmd.Flags().StringP("tags", "t", "", "Comma-separated classifier tags")

	cmd.MarkFlagRequired("bank")

	RootCmd.AddCommand(cmd)
}

func runStore(cmd *cobra.Command, args []string) {
	bank, _ := cmd.Flags().GetString("bank")
	id, _ := cmd.Flags().GetString("id")
	confidence, _ := cmd.Flags().GetFloat64("confidence")
	verification, _ := cmd.Flags().GetString("verification")
	source, _ := cmd.Flags().GetString("source")
	meta, _ := cmd.Flags().GetString("meta")
	intent, _ := cmd.Flags().GetString("intent")
	verdict, _ := cmd.Flags().GetString("verdict")
	tagsStr, _ := cmd.Flags().GetString("tags")

	var content string
	if len(args) > 0 {
		content = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			content = string(b)
		}
	}

	if strings.TrimSpace(content) == "" {
		exitErr("store", fmt.Errorf("content is required (positional arg or stdin)"))
	}
	if verification != "" && !model.ValidVerificationLevels[verification] {
		exitErr("store", fmt.Errorf("unknown verification level %q", verification))
	}

	var ctx *model.Context
	if intent != "" || verdict != "" || tagsStr != "" {
		ctx = &model.Context{Intent: intent, Verdict: verdict, Tags: splitTags(tagsStr)}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	res, err := s.Store(cmd.Context(), store.StoreParams{
		Bank: bank,
		Fact: model.Fact{
			ID:                id,
			Content:           strings.TrimSpace(content),
			Confidence:        confidence,
			VerificationLevel: verification,
			Source:            source,
			Meta:              meta,
		},
		Context: ctx,
	})
	if err != nil {
		exitErr("store", err)
	}

	printOK("STORE", res)
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
