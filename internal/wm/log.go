package wm

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Log is the append-only JSONL persistence log for working-memory entries.
// One entry per line; replay skips entries whose deadline has passed.
type Log struct {
	path string
}

// NewLog creates a log at path, creating parent directories as needed.
func NewLog(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create wm log dir: %w", err)
	}
	return &Log{path: path}, nil
}

// Append writes one entry to the log.
func (l *Log) Append(e Entry) error {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open wm log: %w", err)
	}
	defer f.Close()

	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	if _, err := f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	return nil
}

// Replay reads the log and returns the entries still live at the given
// tick. Blank and unparseable lines are skipped. A missing log file is
// not an error.
func (l *Log) Replay(now int64) ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open wm log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		if e.Live(now) {
			entries = append(entries, e)
		}
	}
	return entries, sc.Err()
}
