package detector

import "strings"

// Verdict is the result of classifying a single message.
type Verdict struct {
	Detected bool   `json:"detected"`
	Tactic   string `json:"tactic"`
}

// Pattern pairs a lowercase substring with the social-engineering tactic it
// signals. Patterns live in a slice, not a map: the first entry that matches
// wins, and that priority is part of the contract.
type Pattern struct {
	Substring string
	Tactic    string
}

// Patterns is the ordered tactic table. Overlapping keywords resolve by
// position in this list, not by where they appear in the message.
var Patterns = []Pattern{
	{"account will be blocked", "Fear-based account suspension threat"},
	{"verify immediately", "Urgent verification pressure"},
	{"share your upi", "UPI payment redirection"},
	{"kyc update", "KYC impersonation"},
	{"click the link", "Phishing link redirection"},
	{"urgent action", "Urgency pressure tactic"},
	{"suspended today", "Same-day suspension threat"},
	{"bank alert", "Bank impersonation alert"},
	{"limited time", "Limited-time offer pressure"},
	{"confirm now", "Immediate confirmation demand"},
}

const (
	// ReasonEmpty is returned for blank input.
	ReasonEmpty = "Empty message content"
	// ReasonNoMatch is returned when no tactic pattern matches.
	ReasonNoMatch = "No scam patterns detected"
)

// Classify runs the ordered tactic table over a message. It is a pure
// function: no I/O, no randomness, identical output for identical input.
func Classify(text string) Verdict {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Verdict{Detected: false, Tactic: ReasonEmpty}
	}

	lowered := strings.ToLower(trimmed)
	for _, p := range Patterns {
		if strings.Contains(lowered, p.Substring) {
			return Verdict{Detected: true, Tactic: p.Tactic}
		}
	}

	return Verdict{Detected: false, Tactic: ReasonNoMatch}
}
