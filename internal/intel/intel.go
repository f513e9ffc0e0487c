package intel

import (
	"regexp"
	"sort"
	"strings"
)

// Intelligence holds the artifacts recovered from a conversation. Each field
// is deduplicated and lexicographically sorted, and is always non-nil so the
// JSON encoding stays [] rather than null.
type Intelligence struct {
	BankAccounts  []string `json:"bankAccounts"`
	UpiIDs        []string `json:"upiIds"`
	PhishingLinks []string `json:"phishingLinks"`
}

// ArtifactCount returns the total number of artifacts across all classes.
func (in Intelligence) ArtifactCount() int {
	return len(in.BankAccounts) + len(in.UpiIDs) + len(in.PhishingLinks)
}

// Empty reports whether no artifacts were recovered.
func (in Intelligence) Empty() bool {
	return in.ArtifactCount() == 0
}

var (
	// Runs of 9-18 digits, optionally separated by a single space or hyphen
	// between digits, bounded as a whole token.
	bankAccountRe = regexp.MustCompile(`\b\d(?:[ -]?\d){8,17}\b`)

	// localpart@domain: localpart >=2 of [A-Za-z0-9._-], domain >=2 letters.
	upiRe = regexp.MustCompile(`\b[A-Za-z0-9._-]{2,}@[A-Za-z]{2,}\b`)

	// http(s) URLs or bare www. tokens, case-insensitive.
	linkRe = regexp.MustCompile(`(?i)https?://[^\s<>"]+|\bwww\.[^\s<>"]+`)
)

// trailing punctuation stripped from normalized links
const linkTrailers = ".,)]}"

// Extract scans text for bank account numbers, UPI handles, and phishing
// links. The three scans are independent and never cross-influence each
// other. Extract is total: it never fails, and empty input yields three
// empty sets. It is also idempotent — re-extracting from its own normalized
// output returns the same sets.
func Extract(text string) Intelligence {
	return Intelligence{
		BankAccounts:  extractBankAccounts(text),
		UpiIDs:        extractUpiIDs(text),
		PhishingLinks: extractLinks(text),
	}
}

func extractBankAccounts(text string) []string {
	seen := make(map[string]struct{})
	for _, m := range bankAccountRe.FindAllString(text, -1) {
		cleaned := strings.NewReplacer(" ", "", "-", "").Replace(m)
		// Boundary over-matching can still admit runs outside the valid
		// account length range; discard those after stripping separators.
		if len(cleaned) < 9 || len(cleaned) > 18 {
			continue
		}
		seen[cleaned] = struct{}{}
	}
	return sorted(seen)
}

func extractUpiIDs(text string) []string {
	seen := make(map[string]struct{})
	for _, m := range upiRe.FindAllString(text, -1) {
		seen[strings.TrimSpace(m)] = struct{}{}
	}
	return sorted(seen)
}

func extractLinks(text string) []string {
	seen := make(map[string]struct{})
	for _, m := range linkRe.FindAllString(text, -1) {
		link := strings.ToLower(m)
		link = strings.TrimRight(link, linkTrailers)
		if link == "" {
			continue
		}
		seen[link] = struct{}{}
	}
	return sorted(seen)
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
