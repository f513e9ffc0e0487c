package campaign

import (
	"sort"
	"testing"

	"github.com/google/uuid"

	"github.com/decoynet/lure/internal/store"
)

func TestCluster_Empty(t *testing.T) {
	if got := Cluster(nil); len(got) != 0 {
		t.Errorf("expected no campaigns, got %d", len(got))
	}
}

func TestCluster_SingleReportIsNotACampaign(t *testing.T) {
	report := uuid.New()
	pairs := []store.ArtifactPair{
		{ReportID: report, ArtifactID: uuid.New(), Kind: store.KindUpiID, Value: "a@upi"},
		{ReportID: report, ArtifactID: uuid.New(), Kind: store.KindPhishingLink, Value: "http://x.example"},
	}
	if got := Cluster(pairs); len(got) != 0 {
		t.Errorf("expected no campaigns for a single report, got %d", len(got))
	}
}

func TestCluster_SharedArtifactLinksReports(t *testing.T) {
	r1, r2, r3 := uuid.New(), uuid.New(), uuid.New()
	shared := uuid.New()

	pairs := []store.ArtifactPair{
		{ReportID: r1, ArtifactID: shared, Value: "scammer@upi"},
		{ReportID: r2, ArtifactID: shared, Value: "scammer@upi"},
		{ReportID: r3, ArtifactID: uuid.New(), Value: "other@upi"},
	}

	got := Cluster(pairs)
	if len(got) != 1 {
		t.Fatalf("expected 1 campaign, got %d", len(got))
	}
	if got[0].Size != 2 {
		t.Errorf("size = %d, want 2", got[0].Size)
	}
	if len(got[0].Artifacts) != 1 || got[0].Artifacts[0] != "scammer@upi" {
		t.Errorf("artifacts = %v", got[0].Artifacts)
	}
}

func TestCluster_TransitiveChain(t *testing.T) {
	// r1 shares artifact A with r2; r2 shares artifact B with r3.
	// All three form one campaign even though r1 and r3 share nothing.
	r1, r2, r3 := uuid.New(), uuid.New(), uuid.New()
	artA, artB := uuid.New(), uuid.New()

	pairs := []store.ArtifactPair{
		{ReportID: r1, ArtifactID: artA, Value: "pay@upi"},
		{ReportID: r2, ArtifactID: artA, Value: "pay@upi"},
		{ReportID: r2, ArtifactID: artB, Value: "http://evil.example"},
		{ReportID: r3, ArtifactID: artB, Value: "http://evil.example"},
	}

	got := Cluster(pairs)
	if len(got) != 1 {
		t.Fatalf("expected 1 campaign, got %d", len(got))
	}
	if got[0].Size != 3 {
		t.Errorf("size = %d, want 3", got[0].Size)
	}
	if len(got[0].Artifacts) != 2 {
		t.Errorf("artifacts = %v, want both values", got[0].Artifacts)
	}
}

func TestCluster_SeparateComponents(t *testing.T) {
	a1, a2 := uuid.New(), uuid.New()
	b1, b2 := uuid.New(), uuid.New()
	artA, artB := uuid.New(), uuid.New()

	pairs := []store.ArtifactPair{
		{ReportID: a1, ArtifactID: artA, Value: "111222333444"},
		{ReportID: a2, ArtifactID: artA, Value: "111222333444"},
		{ReportID: b1, ArtifactID: artB, Value: "www.phish.example"},
		{ReportID: b2, ArtifactID: artB, Value: "www.phish.example"},
	}

	got := Cluster(pairs)
	if len(got) != 2 {
		t.Fatalf("expected 2 campaigns, got %d", len(got))
	}
	for _, c := range got {
		if c.Size != 2 {
			t.Errorf("size = %d, want 2", c.Size)
		}
	}
}

func TestCluster_DeterministicOrdering(t *testing.T) {
	r1, r2 := uuid.New(), uuid.New()
	shared := uuid.New()
	pairs := []store.ArtifactPair{
		{ReportID: r2, ArtifactID: shared, Value: "zz@upi"},
		{ReportID: r1, ArtifactID: shared, Value: "zz@upi"},
	}

	first := Cluster(pairs)
	for i := 0; i < 20; i++ {
		again := Cluster(pairs)
		if len(again) != len(first) {
			t.Fatal("cluster count changed between runs")
		}
		for j := range again {
			if !sort.SliceIsSorted(again[j].Reports, func(a, b int) bool {
				return again[j].Reports[a].String() < again[j].Reports[b].String()
			}) {
				t.Error("reports not sorted")
			}
			if len(again[j].Reports) != len(first[j].Reports) {
				t.Error("membership changed between runs")
			}
		}
	}
}
