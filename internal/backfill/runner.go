// Package backfill replays exported conversation dumps through the
// classifier and extractor offline, seeding the sightings store from
// historic honeypot logs without touching the live endpoint.
package backfill

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/decoynet/lure/internal/detector"
	"github.com/decoynet/lure/internal/intel"
	"github.com/decoynet/lure/internal/responder"
	"github.com/decoynet/lure/internal/risk"
	"github.com/decoynet/lure/internal/store"
)

// Stats summarises one backfill run.
type Stats struct {
	Conversations int
	Flagged       int
	Artifacts     int
	Stored        int
}

type Runner struct {
	store  *store.Store // nil means dry run: classify and count, write nothing
	logger *slog.Logger
}

func NewRunner(s *store.Store, logger *slog.Logger) *Runner {
	return &Runner{store: s, logger: logger}
}

// Run parses a dump file and replays every conversation.
func (r *Runner) Run(ctx context.Context, path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("open dump: %w", err)
	}
	defer f.Close()

	convs, err := ParseDump(f)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, conv := range convs {
		stats.Conversations++

		rep, flagged := Replay(conv)
		if !flagged {
			continue
		}
		stats.Flagged++
		stats.Artifacts += rep.Intelligence.ArtifactCount()

		if r.store == nil {
			continue
		}
		if _, err := r.store.WriteReport(ctx, rep); err != nil {
			return stats, fmt.Errorf("store conversation %d: %w", stats.Conversations, err)
		}
		stats.Stored++
	}

	r.logger.Info("backfill complete",
		"conversations", stats.Conversations,
		"flagged", stats.Flagged,
		"artifacts", stats.Artifacts,
		"stored", stats.Stored,
	)
	return stats, nil
}

// Replay runs the deterministic pipeline over one historic conversation.
// The first message that matches a tactic flags the conversation; the
// extractor then sweeps the full text.
func Replay(conv Conversation) (store.Report, bool) {
	var verdict detector.Verdict
	var flaggedText string
	for _, m := range conv.Messages {
		v := detector.Classify(m.Text)
		if v.Detected {
			verdict = v
			flaggedText = m.Text
			break
		}
	}
	if !verdict.Detected {
		return store.Report{}, false
	}

	texts := make([]string, 0, len(conv.Messages))
	for _, m := range conv.Messages {
		if m.Text != "" {
			texts = append(texts, m.Text)
		}
	}
	extracted := intel.Extract(strings.Join(texts, " "))

	return store.Report{
		ID:           uuid.New(),
		Tactic:       verdict.Tactic,
		Stance:       responder.Stance(flaggedText),
		RiskScore:    risk.Score(verdict, extracted),
		MessageCount: len(conv.Messages),
		Channel:      conv.Channel,
		Intelligence: extracted,
	}, true
}
