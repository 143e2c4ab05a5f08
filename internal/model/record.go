// Package model defines the core record and tier data types.
package model

// Physical tiers, in rotation order. Overflow moves one tier down per pass;
// archive is terminal and never rotates out.
const (
	TierHot     = "hot"
	TierWarm    = "warm"
	TierCold    = "cold"
	TierArchive = "archive"
)

// PhysicalTiers lists the physical tiers hottest-first.
var PhysicalTiers = []string{TierHot, TierWarm, TierCold, TierArchive}

// Semantic tiers express how long a record should survive rotation
// pressure, orthogonal to its physical placement.
const (
	SemanticPinned = "pinned"
	SemanticMid    = "mid"
	SemanticShort  = "short"
)

// Record is a stored fact. Its physical tier is whichever tier log
// currently holds it; SeqID is the sole basis for recency.
type Record struct {
	ID                string  `json:"id"`
	Bank              string  `json:"bank"`
	Content           string  `json:"content"`
	Confidence        float64 `json:"confidence"`
	VerificationLevel string  `json:"verification_level,omitempty"`
	Source            string  `json:"source,omitempty"`
	ValidatedBy       string  `json:"validated_by,omitempty"`
	Meta              string  `json:"meta,omitempty"`
	Tier              string  `json:"tier"`
	SemanticTier      string  `json:"semantic_tier"`
	Importance        float64 `json:"importance"`
	UseCount          int     `json:"use_count"`
	SeqID             int64   `json:"seq_id"`
}

// Fact is the caller-supplied payload for a store operation. ID is
// optional; when empty the record id is the content fingerprint.
type Fact struct {
	ID                string  `json:"id,omitempty"`
	Content           string  `json:"content"`
	Confidence        float64 `json:"confidence,omitempty"`
	VerificationLevel string  `json:"verification_level,omitempty"`
	Source            string  `json:"source,omitempty"`
	ValidatedBy       string  `json:"validated_by,omitempty"`
	Meta              string  `json:"meta,omitempty"`
}

// Context carries the heuristic annotations a caller derived for a fact.
// It feeds the tier classifier; all fields are optional.
type Context struct {
	Intent  string   `json:"intent,omitempty"`
	Verdict string   `json:"verdict,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// HasTag reports whether the context carries the given tag.
func (c Context) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ValidVerificationLevels are the recognized verification tags. The store
// treats the level as opaque metadata; the CLI rejects unknown values.
var ValidVerificationLevels = map[string]bool{
	"validated":      true,
	"educated_guess": true,
	"unknown":        true,
}
