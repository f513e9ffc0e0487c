// Package campaign groups stored scam reports into campaigns. Two reports
// belong to the same campaign when they share at least one artifact value
// (a reused UPI handle, account number, or link). Clustering is union-find
// over the report/artifact graph.
package campaign

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/decoynet/lure/internal/events"
	"github.com/decoynet/lure/internal/store"
)

// Campaign is one connected component of reports linked by shared artifacts.
type Campaign struct {
	Size      int         `json:"size"`
	Reports   []uuid.UUID `json:"reports"`
	Artifacts []string    `json:"artifacts"`
}

// Detector scans the sightings store for campaigns.
type Detector struct {
	store *store.Store
}

func NewDetector(s *store.Store) *Detector {
	return &Detector{store: s}
}

// FindCampaigns loads all report/artifact links and clusters them. Only
// clusters spanning more than one report are campaigns; a lone report
// sharing nothing is just a sighting.
func (d *Detector) FindCampaigns(ctx context.Context) ([]Campaign, error) {
	pairs, err := d.store.ListArtifactPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list artifact pairs: %w", err)
	}
	return Cluster(pairs), nil
}

// Cluster groups reports connected through shared artifacts using union-find
// with path compression. Output is deterministic: reports and artifact
// values sorted within each campaign, campaigns sorted by first report ID.
func Cluster(pairs []store.ArtifactPair) []Campaign {
	if len(pairs) == 0 {
		return nil
	}

	parent := make(map[uuid.UUID]uuid.UUID)
	var find func(uuid.UUID) uuid.UUID
	find = func(id uuid.UUID) uuid.UUID {
		if parent[id] != id {
			parent[id] = find(parent[id])
		}
		return parent[id]
	}
	union := func(a, b uuid.UUID) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	// Union every report with the first report seen for each artifact.
	firstReport := make(map[uuid.UUID]uuid.UUID) // artifact -> report
	for _, p := range pairs {
		if _, ok := parent[p.ReportID]; !ok {
			parent[p.ReportID] = p.ReportID
		}
		if first, ok := firstReport[p.ArtifactID]; ok {
			union(first, p.ReportID)
		} else {
			firstReport[p.ArtifactID] = p.ReportID
		}
	}

	// Collect members and artifact values per root.
	reports := make(map[uuid.UUID]map[uuid.UUID]struct{})
	values := make(map[uuid.UUID]map[string]struct{})
	for _, p := range pairs {
		root := find(p.ReportID)
		if reports[root] == nil {
			reports[root] = make(map[uuid.UUID]struct{})
			values[root] = make(map[string]struct{})
		}
		reports[root][p.ReportID] = struct{}{}
		values[root][p.Value] = struct{}{}
	}

	var campaigns []Campaign
	for root, members := range reports {
		if len(members) < 2 {
			continue
		}

		ids := make([]uuid.UUID, 0, len(members))
		for id := range members {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

		arts := make([]string, 0, len(values[root]))
		for v := range values[root] {
			arts = append(arts, v)
		}
		sort.Strings(arts)

		campaigns = append(campaigns, Campaign{
			Size:      len(ids),
			Reports:   ids,
			Artifacts: arts,
		})
	}

	sort.Slice(campaigns, func(i, j int) bool {
		return campaigns[i].Reports[0].String() < campaigns[j].Reports[0].String()
	})
	return campaigns
}

// Publish emits a campaign proposal for each identified cluster.
func Publish(ev *events.Client, campaigns []Campaign) error {
	for _, c := range campaigns {
		ids := make([]string, len(c.Reports))
		for i, id := range c.Reports {
			ids[i] = id.String()
		}
		if err := ev.Publish(events.SubjectCampaignIdentified, map[string]any{
			"size":      c.Size,
			"reports":   ids,
			"artifacts": c.Artifacts,
		}); err != nil {
			return fmt.Errorf("publish campaign: %w", err)
		}
	}
	return nil
}
