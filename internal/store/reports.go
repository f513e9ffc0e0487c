package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/decoynet/lure/internal/intel"
)

// Artifact kinds as stored in intel_artifacts.kind.
const (
	KindBankAccount  = "bank_account"
	KindUpiID        = "upi_id"
	KindPhishingLink = "phishing_link"
)

// Report is one detected scam engagement as persisted.
type Report struct {
	ID           uuid.UUID
	Tactic       string
	Stance       string
	RiskScore    float64
	MessageCount int
	Channel      string
	Intelligence intel.Intelligence
}

// ArtifactPair links a report to one artifact it surfaced.
type ArtifactPair struct {
	ReportID   uuid.UUID
	ArtifactID uuid.UUID
	Kind       string
	Value      string
}

// WriteReport writes a scam report and its artifacts in one transaction.
// Artifacts are upserted on (kind, value): a value sighted again bumps
// seen_count and last_seen instead of duplicating the row, and
// report_artifacts records which reports produced which artifacts.
func (s *Store) WriteReport(ctx context.Context, rep Report) (uuid.UUID, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	reportID := rep.ID
	if reportID == uuid.Nil {
		reportID = uuid.New()
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO scam_reports (id, tactic, stance, risk_score, message_count, channel, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		reportID, rep.Tactic, rep.Stance, rep.RiskScore, rep.MessageCount, rep.Channel,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert report: %w", err)
	}

	artifactSets := []struct {
		kind   string
		values []string
	}{
		{KindBankAccount, rep.Intelligence.BankAccounts},
		{KindUpiID, rep.Intelligence.UpiIDs},
		{KindPhishingLink, rep.Intelligence.PhishingLinks},
	}
	for _, set := range artifactSets {
		for _, value := range set.values {
			if err := upsertArtifact(ctx, tx, reportID, set.kind, value); err != nil {
				return uuid.Nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit: %w", err)
	}

	return reportID, nil
}

func upsertArtifact(ctx context.Context, tx pgx.Tx, reportID uuid.UUID, kind, value string) error {
	var artifactID uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO intel_artifacts (id, kind, value, first_seen, last_seen, seen_count)
		VALUES ($1, $2, $3, now(), now(), 1)
		ON CONFLICT (kind, value)
		DO UPDATE SET last_seen = now(), seen_count = intel_artifacts.seen_count + 1
		RETURNING id`,
		uuid.New(), kind, value,
	).Scan(&artifactID)
	if err != nil {
		return fmt.Errorf("upsert artifact %s: %w", kind, err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO report_artifacts (report_id, artifact_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		reportID, artifactID,
	)
	if err != nil {
		return fmt.Errorf("link artifact: %w", err)
	}
	return nil
}

// ListArtifactPairs returns every report/artifact link, the raw material for
// campaign clustering.
func (s *Store) ListArtifactPairs(ctx context.Context) ([]ArtifactPair, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT ra.report_id, ra.artifact_id, ia.kind, ia.value
		FROM report_artifacts ra
		JOIN intel_artifacts ia ON ia.id = ra.artifact_id
		ORDER BY ra.report_id`)
	if err != nil {
		return nil, fmt.Errorf("query artifact pairs: %w", err)
	}
	defer rows.Close()

	var pairs []ArtifactPair
	for rows.Next() {
		var p ArtifactPair
		if err := rows.Scan(&p.ReportID, &p.ArtifactID, &p.Kind, &p.Value); err != nil {
			return nil, fmt.Errorf("scan artifact pair: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifact pairs: %w", err)
	}
	return pairs, nil
}

// CountReports returns the number of stored scam reports.
func (s *Store) CountReports(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM scam_reports`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return n, nil
}
