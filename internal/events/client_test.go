package events

import (
	"encoding/json"
	"testing"
)

func TestDetectionEventRoundTrip(t *testing.T) {
	evt := DetectionEvent{
		ReportID:     "0b7c3a52-3f0f-4a4e-bb1e-2f6f9f3cf001",
		Tactic:       "UPI payment redirection",
		Stance:       "worried",
		RiskScore:    0.65,
		MessageCount: 4,
		Channel:      "SMS",
		BankAccounts: []string{"123456789012"},
		UpiIDs:       []string{"scammer@upi"},
		Links:        []string{"http://evil.example"},
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed DetectionEvent
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if parsed.Tactic != evt.Tactic || parsed.RiskScore != evt.RiskScore || parsed.MessageCount != evt.MessageCount {
		t.Errorf("round-trip mismatch: got %+v, want %+v", parsed, evt)
	}
	if len(parsed.UpiIDs) != 1 || parsed.UpiIDs[0] != "scammer@upi" {
		t.Errorf("upi ids = %v", parsed.UpiIDs)
	}
}

func TestDetectionEventFieldNames(t *testing.T) {
	data, err := json.Marshal(DetectionEvent{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"report_id", "tactic", "stance", "risk_score", "message_count", "bank_accounts", "upi_ids", "phishing_links"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing field %q in event payload", key)
		}
	}
}

func TestSubjects(t *testing.T) {
	if SubjectScamDetected != "honeypot.scam.detected" {
		t.Errorf("SubjectScamDetected = %q", SubjectScamDetected)
	}
	if SubjectCampaignIdentified != "honeypot.campaign.identified" {
		t.Errorf("SubjectCampaignIdentified = %q", SubjectCampaignIdentified)
	}
}
