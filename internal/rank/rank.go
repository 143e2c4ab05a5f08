// Package rank orders multi-tier retrieval hits deterministically.
//
// The score combines, in strictly decreasing weight: semantic tier,
// importance, prior use count, and recency. The non-tier components sum to
// less than the 1.0 gap between tier bases, so hits at a higher tier always
// outrank hits at a lower one. No randomness, no clock; identical input
// always yields an identical score.
package rank

import (
	"sort"

	"github.com/tierstore/tierstore/internal/model"
)

// Component bounds. Tier bases are 1.0 apart; importance contributes up to
// 0.5; use count up to 0.25; recency up to 0.2.
const (
	basePinned = 3.0
	baseMid    = 2.0
	baseShort  = 1.0

	importanceWeight = 0.5
	useCountCeiling  = 0.25
	recencyCeiling   = 0.2
)

// Score computes the retrieval score for a record. maxSeq is the highest
// seq id issued so far and normalizes the recency component; values at or
// below zero disable the recency boost.
func Score(r model.Record, maxSeq int64) float64 {
	score := tierBase(r.SemanticTier)
	score += importanceWeight * clamp01(r.Importance)

	// Asymptotic use-count boost: monotone in use_count, bounded below
	// the importance step.
	uc := float64(r.UseCount)
	if uc > 0 {
		score += useCountCeiling * uc / (uc + 10)
	}

	if maxSeq > 0 && r.SeqID > 0 {
		score += recencyCeiling * float64(r.SeqID) / float64(maxSeq)
	}

	return score
}

// Sort orders records by descending score; equal scores fall back to
// descending seq id, then id, keeping the order fully deterministic.
func Sort(records []model.Record, maxSeq int64) {
	sort.SliceStable(records, func(i, j int) bool {
		si, sj := Score(records[i], maxSeq), Score(records[j], maxSeq)
		if si != sj {
			return si > sj
		}
		if records[i].SeqID != records[j].SeqID {
			return records[i].SeqID > records[j].SeqID
		}
		return records[i].ID < records[j].ID
	})
}

func tierBase(tier string) float64 {
	switch tier {
	case model.SemanticPinned:
		return basePinned
	case model.SemanticMid:
		return baseMid
	case model.SemanticShort:
		return baseShort
	default:
		return baseShort
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
