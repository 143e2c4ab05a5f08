// Package cli implements the tierstore CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tierstore/tierstore/internal/config"
	"github.com/tierstore/tierstore/internal/store"
)

var (
	dbPath     string
	configPath string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "tierstore",
	Short: "Tiered record banks with working memory",
	Long:  "A tiered, deduplicating record store. Facts rotate hot to archive per bank; a TTL'd working memory arbitrates transient values.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $TIERSTORE_DB or ~/.tierstore/tierstore.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: $TIERSTORE_CONFIG)")
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("TIERSTORE_CONFIG")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	} else if env := os.Getenv("TIERSTORE_DB"); env != "" {
		cfg.DBPath = env
	}
	return cfg, nil
}

func openStore() (*store.SQLiteStore, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return store.NewSQLiteStore(cfg)
}

// envelope is the response wrapper every command prints: the operation
// name, a fresh message id, and the payload.
type envelope struct {
	OK      bool        `json:"ok"`
	Op      string      `json:"op"`
	MID     string      `json:"mid"`
	Payload interface{} `json:"payload"`
}

func printOK(op string, payload interface{}) {
	b, _ := json.MarshalIndent(envelope{
		OK:      true,
		Op:      op,
		MID:     uuid.NewString(),
		Payload: payload,
	}, "", "  ")
	fmt.Println(string(b))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
