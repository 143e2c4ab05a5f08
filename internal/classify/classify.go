// Package classify assigns a semantic tier and importance to a candidate
// record based on the intent, verdict, and tags its caller derived.
//
// Classification is a pure function of its inputs. It never consults a
// clock, the store, or any global state.
package classify

import (
	"strings"

	"github.com/tierstore/tierstore/internal/model"
)

// Recognized intents.
const (
	IntentIdentity     = "IDENTITY"
	IntentPreference   = "PREFERENCE"
	IntentRelationship = "RELATIONSHIP"
	IntentFact         = "FACT"
	IntentCreative     = "CREATIVE"
	IntentQuestion     = "QUESTION"
	IntentSpeculation  = "SPECULATION"
	IntentUnknown      = "UNKNOWN"
)

// Recognized verdicts.
const (
	VerdictTrue        = "TRUE"
	VerdictTheory      = "THEORY"
	VerdictPreference  = "PREFERENCE"
	VerdictUnknown     = "UNKNOWN"
	VerdictSkipStorage = "SKIP_STORAGE"
)

// ConfidenceFloor is the minimum confidence an UNKNOWN-verdict fact needs
// to be stored at all.
const ConfidenceFloor = 0.35

// Assignment is the classifier's decision for one record.
type Assignment struct {
	// Tier is the semantic tier, or "" when the record should not be
	// stored.
	Tier string
	// Importance feeds the retrieval ranker. 0 when discarded.
	Importance float64
}

// Store reports whether the record should be written.
func (a Assignment) Store() bool {
	return a.Tier != ""
}

// Assign maps a fact plus its heuristic context to a semantic tier and an
// importance score, or to a discard decision (empty tier).
func Assign(fact model.Fact, ctx model.Context) Assignment {
	intent := strings.ToUpper(ctx.Intent)
	verdict := strings.ToUpper(ctx.Verdict)

	// Confirmed identity statements are pinned and never age out.
	if intent == IntentIdentity && verdict == VerdictTrue && ctx.HasTag("identity") {
		return Assignment{Tier: model.SemanticPinned, Importance: 1.0}
	}

	// Questions carry no storable fact unless the caller derived one and
	// marked the verdict true.
	if intent == IntentQuestion && verdict != VerdictTrue {
		return Assignment{}
	}

	// Creative output stays short-lived even when marked true.
	if intent == IntentCreative {
		return Assignment{Tier: model.SemanticShort, Importance: clamp(fact.Confidence * 0.5)}
	}

	// Speculation decays quickly; importance stays strictly below 1.
	if verdict == VerdictTheory {
		imp := clamp(fact.Confidence)
		if imp >= 1.0 {
			imp = 0.99
		}
		return Assignment{Tier: model.SemanticShort, Importance: imp}
	}

	if intent == IntentPreference || verdict == VerdictPreference {
		imp := fact.Confidence
		if imp < 0.8 {
			imp = 0.8
		}
		return Assignment{Tier: model.SemanticMid, Importance: clamp(imp)}
	}

	if intent == IntentRelationship || ctx.HasTag("relationship") {
		imp := fact.Confidence
		if imp < 0.9 {
			imp = 0.9
		}
		return Assignment{Tier: model.SemanticMid, Importance: clamp(imp)}
	}

	if intent == IntentFact && verdict == VerdictTrue {
		return Assignment{Tier: model.SemanticMid, Importance: clamp(fact.Confidence)}
	}

	if verdict == VerdictSkipStorage {
		return Assignment{}
	}

	// Unclassified leftovers: keep only when confidence clears the floor.
	if fact.Confidence < ConfidenceFloor {
		return Assignment{}
	}
	return Assignment{Tier: model.SemanticShort, Importance: clamp(fact.Confidence)}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
