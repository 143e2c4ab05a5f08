package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tierstore/tierstore/internal/wm"
)

var wmNow int64

func init() {
	wmCmd := &cobra.Command{
		Use:   "wm",
		Short: "Working memory operations",
		Long:  "Transient TTL'd key/value layer with confidence arbitration. Time is logical: pass the current tick with --now.",
	}
	wmCmd.PersistentFlags().Int64Var(&wmNow, "now", 0, "Current logical tick")

	putCmd := &cobra.Command{
		Use:   "put [key] [value]",
		Short: "Put an entry (appends, never overwrites)",
		Args:  cobra.ExactArgs(2),
		Run:   runWMPut,
	}
	putCmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	putCmd.Flags().Float64("confidence", 0.5, "Confidence in [0,1]")
	putCmd.Flags().Int64("ttl", 0, "TTL in ticks (0 = config default)")

	getCmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get live entries for a key plus the arbitration winner",
		Args:  cobra.ExactArgs(1),
		Run:   runWMGet,
	}

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump all live entries",
		Run:   runWMDump,
	}

	tickCmd := &cobra.Command{
		Use:   "tick",
		Short: "Expire dead entries and emit events for live ones",
		Run:   runWMTick,
	}

	eventsCmd := &cobra.Command{
		Use:   "events",
		Short: "Tick, then drain the event queue and report per-type counts",
		Run:   runWMEvents,
	}

	wmCmd.AddCommand(putCmd, getCmd, dumpCmd, tickCmd, eventsCmd)
	RootCmd.AddCommand(wmCmd)
}

// openTable builds the working memory table, replaying the persistence
// log when the config enables it.
func openTable() (*wm.Table, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	opts := wm.Options{DefaultTTL: cfg.WM.DefaultTTL}
	if cfg.WM.Persist {
		log, err := wm.NewLog(cfg.WM.LogPath)
		if err != nil {
			return nil, err
		}
		opts.Log = log
	}

	t := wm.NewTable(opts)
	if err := t.Load(wmNow); err != nil {
		return nil, fmt.Errorf("replay wm log: %w", err)
	}
	return t, nil
}

func runWMPut(cmd *cobra.Command, args []string) {
	tagsStr, _ := cmd.Flags().GetString("tags")
	confidence, _ := cmd.Flags().GetFloat64("confidence")
	ttl, _ := cmd.Flags().GetInt64("ttl")

	t, err := openTable()
	if err != nil {
		exitErr("open wm", err)
	}

	var tags []string
	if tagsStr != "" {
		tags = strings.Split(tagsStr, ",")
	}

	e := t.Put(args[0], args[1], tags, confidence, ttl, wmNow)
	printOK("WM_PUT", e)
}

func runWMGet(cmd *cobra.Command, args []string) {
	t, err := openTable()
	if err != nil {
		exitErr("open wm", err)
	}

	entries, winner := t.Get(args[0], wmNow)
	if entries == nil {
		entries = []wm.Entry{}
	}
	printOK("WM_GET", map[string]interface{}{
		"entries": entries,
		"winner":  winner,
	})
}

func runWMDump(cmd *cobra.Command, args []string) {
	t, err := openTable()
	if err != nil {
		exitErr("open wm", err)
	}

	entries := t.Dump(wmNow)
	if entries == nil {
		entries = []wm.Entry{}
	}
	printOK("WM_DUMP", map[string]interface{}{"entries": entries})
}

func runWMTick(cmd *cobra.Command, args []string) {
	t, err := openTable()
	if err != nil {
		exitErr("open wm", err)
	}

	expired := t.Tick(wmNow)
	printOK("TICK", map[string]interface{}{
		"expired": expired,
		"live":    len(t.Dump(wmNow)),
	})
}

func runWMEvents(cmd *cobra.Command, args []string) {
	t, err := openTable()
	if err != nil {
		exitErr("open wm", err)
	}

	t.Tick(wmNow)
	counts := t.ProcessEvents()
	printOK("PROCESS_EVENTS", map[string]interface{}{"events": counts})
}
