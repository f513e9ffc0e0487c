//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/decoynet/lure/internal/intel"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})
	return s
}

func TestIntegration_WriteReport(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	rep := Report{
		ID:           uuid.New(),
		Tactic:       "KYC impersonation",
		Stance:       "worried",
		RiskScore:    0.65,
		MessageCount: 3,
		Channel:      "SMS",
		Intelligence: intel.Intelligence{
			BankAccounts:  []string{"123456789012"},
			UpiIDs:        []string{"integration-test@upi"},
			PhishingLinks: []string{},
		},
	}

	id, err := s.WriteReport(ctx, rep)
	if err != nil {
		t.Fatalf("WriteReport: %v", err)
	}
	if id != rep.ID {
		t.Errorf("returned id = %s, want %s", id, rep.ID)
	}

	count, err := s.CountReports(ctx)
	if err != nil {
		t.Fatalf("CountReports: %v", err)
	}
	if count < 1 {
		t.Errorf("report count = %d, want at least 1", count)
	}
}

func TestIntegration_ArtifactUpsert(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	value := "upsert-test-" + uuid.New().String()[:8] + "@upi"
	in := intel.Intelligence{
		BankAccounts:  []string{},
		UpiIDs:        []string{value},
		PhishingLinks: []string{},
	}

	// Two reports sighting the same artifact must share one artifact row.
	first := Report{ID: uuid.New(), Tactic: "UPI payment redirection", Stance: "neutral", RiskScore: 0.65, MessageCount: 1, Intelligence: in}
	second := Report{ID: uuid.New(), Tactic: "UPI payment redirection", Stance: "neutral", RiskScore: 0.65, MessageCount: 1, Intelligence: in}

	if _, err := s.WriteReport(ctx, first); err != nil {
		t.Fatalf("first WriteReport: %v", err)
	}
	if _, err := s.WriteReport(ctx, second); err != nil {
		t.Fatalf("second WriteReport: %v", err)
	}

	pairs, err := s.ListArtifactPairs(ctx)
	if err != nil {
		t.Fatalf("ListArtifactPairs: %v", err)
	}

	var artifactIDs = map[uuid.UUID]bool{}
	var reports int
	for _, p := range pairs {
		if p.Value == value {
			artifactIDs[p.ArtifactID] = true
			reports++
		}
	}
	if len(artifactIDs) != 1 {
		t.Errorf("artifact ids for shared value = %d, want 1", len(artifactIDs))
	}
	if reports != 2 {
		t.Errorf("report pairs for shared value = %d, want 2", reports)
	}
}
