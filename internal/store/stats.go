package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath       string      `json:"db_path"`
	DBSizeBytes  int64       `json:"db_size_bytes"`
	TotalRecords int         `json:"total_records"`
	TotalTokens  int         `json:"total_tokens"`
	Banks        []BankStats `json:"banks"`
}

// BankStats holds per-bank tier counts.
type BankStats struct {
	Bank  string         `json:"bank"`
	Total int            `json:"total"`
	Tiers map[string]int `json:"tiers"`
}

// Stats returns database statistics across all banks.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{DBPath: s.cfg.DBPath}

	if info, err := os.Stat(s.cfg.DBPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records`).Scan(&st.TotalRecords)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tokens`).Scan(&st.TotalTokens)

	rows, err := s.db.QueryContext(ctx, `
		SELECT bank, tier, COUNT(*) AS cnt
		FROM records GROUP BY bank, tier ORDER BY bank, tier`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	byBank := map[string]*BankStats{}
	var order []string
	for rows.Next() {
		var bank, tier string
		var n int
		if err := rows.Scan(&bank, &tier, &n); err != nil {
			return st, err
		}
		bs, ok := byBank[bank]
		if !ok {
			bs = &BankStats{Bank: bank, Tiers: map[string]int{}}
			byBank[bank] = bs
			order = append(order, bank)
		}
		bs.Tiers[tier] = n
		bs.Total += n
	}
	for _, bank := range order {
		st.Banks = append(st.Banks, *byBank[bank])
	}

	return st, rows.Err()
}
