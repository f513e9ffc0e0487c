// Package risk derives a deterministic 0..1 risk score for a composed scam
// report. The score rides along on stored reports, alerts, and published
// events; it never appears in the HTTP response contract.
package risk

import (
	"github.com/decoynet/lure/internal/detector"
	"github.com/decoynet/lure/internal/intel"
)

// BaseWeight is the score assigned to any detected tactic before artifact
// evidence is considered.
const BaseWeight = 0.4

// ArtifactWeight returns the score increment for one populated artifact
// class. Payment rails weigh more than links: an account number or UPI
// handle is directly actionable.
func ArtifactWeight(kind string) float64 {
	switch kind {
	case "bank_account":
		return 0.25
	case "upi_id":
		return 0.25
	case "phishing_link":
		return 0.15
	default:
		return 0.0
	}
}

// Score computes the risk for a verdict plus the intelligence recovered from
// the conversation. Not detected always scores zero, regardless of stray
// artifact matches.
func Score(v detector.Verdict, in intel.Intelligence) float64 {
	if !v.Detected {
		return 0.0
	}

	score := BaseWeight
	if len(in.BankAccounts) > 0 {
		score += ArtifactWeight("bank_account")
	}
	if len(in.UpiIDs) > 0 {
		score += ArtifactWeight("upi_id")
	}
	if len(in.PhishingLinks) > 0 {
		score += ArtifactWeight("phishing_link")
	}
	return clamp(score)
}

func clamp(score float64) float64 {
	if score < 0.0 {
		return 0.0
	}
	if score > 1.0 {
		return 1.0
	}
	return score
}
