// Package composer orchestrates the honeypot pipeline: classify the inbound
// message, harvest intelligence from the accumulated conversation, pick a
// stance and a reply, and assemble the response envelope. Detected reports
// are handed to the optional sinks (store, event bus, analyst alerts) on a
// best-effort basis; sink failures never reach the caller.
package composer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/decoynet/lure/internal/alert"
	"github.com/decoynet/lure/internal/detector"
	"github.com/decoynet/lure/internal/events"
	"github.com/decoynet/lure/internal/intel"
	"github.com/decoynet/lure/internal/responder"
	"github.com/decoynet/lure/internal/risk"
	"github.com/decoynet/lure/internal/store"
)

// SecondsPerMessage is the fixed per-message engagement time assumption.
// Duration is derived, not measured.
const SecondsPerMessage = 30

// Analyst notes, in fixed priority order.
const (
	NotePaymentRedirection   = "Payment redirection attempt: the conversation solicited UPI transfers and surfaced payment handles."
	NoteCredentialHarvesting = "Credential harvesting attempt: the conversation pushed phishing links to capture credentials."
	NoteFearCompliance       = "Scam tactics rely on fear and compliance pressure; no payment artifacts surfaced yet."
	NoteBenign               = "No actionable scam indicators in this conversation."
	NoteEmptyRequest         = "Empty or malformed request received"
)

// EmptyRequestReply is the fixed reply for the sole fatal-input case.
const EmptyRequestReply = "Sorry, I didn't fully understand that. Could you explain a bit more?"

// Message is one conversation turn as supplied by the caller.
type Message struct {
	Sender    string
	Text      string
	Timestamp string
}

// Metadata is optional caller-supplied channel context.
type Metadata struct {
	Channel  string
	Language string
	Locale   string
}

// Request is a fully-defaulted conversation snapshot. Absent fields resolve
// to zero values; the composer's own guards decide what is usable.
type Request struct {
	Message  *Message
	History  []Message
	Metadata Metadata
}

// EngagementMetrics are derived purely from message count.
type EngagementMetrics struct {
	EngagementDurationSeconds int `json:"engagementDurationSeconds"`
	TotalMessagesExchanged    int `json:"totalMessagesExchanged"`
}

// Response is the canonical envelope. Status is always "success": every
// error path degrades to a benign-looking reply.
type Response struct {
	Status                string             `json:"status"`
	ScamDetected          bool               `json:"scamDetected"`
	AgentResponse         string             `json:"agentResponse"`
	EngagementMetrics     EngagementMetrics  `json:"engagementMetrics"`
	ExtractedIntelligence intel.Intelligence `json:"extractedIntelligence"`
	AgentNotes            string             `json:"agentNotes"`
}

type Composer struct {
	responder *responder.Responder
	store     *store.Store
	events    *events.Client
	alerts    *alert.Poster
	logger    *slog.Logger
}

func New(r *responder.Responder, db *store.Store, ev *events.Client, alerts *alert.Poster, logger *slog.Logger) *Composer {
	return &Composer{
		responder: r,
		store:     db,
		events:    ev,
		alerts:    alerts,
		logger:    logger,
	}
}

// GeneratorAvailable reports whether the reply collaborator is configured.
func (c *Composer) GeneratorAvailable() bool {
	return c.responder.Available()
}

// Compose produces the response for one conversation snapshot.
func (c *Composer) Compose(ctx context.Context, req *Request) *Response {
	if req == nil || req.Message == nil || strings.TrimSpace(req.Message.Text) == "" {
		return &Response{
			Status:                "success",
			ScamDetected:          false,
			AgentResponse:         EmptyRequestReply,
			EngagementMetrics:     EngagementMetrics{},
			ExtractedIntelligence: intel.Extract(""),
			AgentNotes:            NoteEmptyRequest,
		}
	}

	text := req.Message.Text
	verdict := detector.Classify(text)

	extracted := intel.Extract("")
	if verdict.Detected {
		extracted = intel.Extract(combinedText(text, req.History))
	}

	total := len(req.History) + 1
	metrics := EngagementMetrics{
		EngagementDurationSeconds: total * SecondsPerMessage,
		TotalMessagesExchanged:    total,
	}

	reply, stance := c.responder.Reply(ctx, text, historyTurns(req.History))

	if verdict.Detected {
		c.record(ctx, store.Report{
			ID:           uuid.New(),
			Tactic:       verdict.Tactic,
			Stance:       stance,
			RiskScore:    risk.Score(verdict, extracted),
			MessageCount: total,
			Channel:      req.Metadata.Channel,
			Intelligence: extracted,
		})
	}

	return &Response{
		Status:                "success",
		ScamDetected:          verdict.Detected,
		AgentResponse:         reply,
		EngagementMetrics:     metrics,
		ExtractedIntelligence: extracted,
		AgentNotes:            agentNotes(verdict, extracted),
	}
}

// combinedText concatenates the current message with every usable history
// entry. Entries lacking text are skipped, never fatal.
func combinedText(current string, history []Message) string {
	var b strings.Builder
	b.WriteString(current)
	for _, m := range history {
		if m.Text == "" {
			continue
		}
		b.WriteString(" ")
		b.WriteString(m.Text)
	}
	return b.String()
}

func historyTurns(history []Message) []responder.Turn {
	turns := make([]responder.Turn, 0, len(history))
	for _, m := range history {
		turns = append(turns, responder.Turn{Sender: m.Sender, Text: m.Text})
	}
	return turns
}

// agentNotes picks the analyst note by fixed priority: payment handles
// outrank phishing links, which outrank a bare tactic match.
func agentNotes(v detector.Verdict, in intel.Intelligence) string {
	switch {
	case v.Detected && len(in.UpiIDs) > 0:
		return NotePaymentRedirection
	case v.Detected && len(in.PhishingLinks) > 0:
		return NoteCredentialHarvesting
	case v.Detected:
		return NoteFearCompliance
	default:
		return NoteBenign
	}
}

// record forwards a detected report to whichever sinks are configured.
func (c *Composer) record(ctx context.Context, rep store.Report) {
	if c.store != nil {
		if _, err := c.store.WriteReport(ctx, rep); err != nil {
			c.logger.Error("failed to store report", "report_id", rep.ID, "error", err)
		}
	}

	if c.events != nil {
		evt := events.DetectionEvent{
			ReportID:     rep.ID.String(),
			Tactic:       rep.Tactic,
			Stance:       rep.Stance,
			RiskScore:    rep.RiskScore,
			MessageCount: rep.MessageCount,
			Channel:      rep.Channel,
			BankAccounts: rep.Intelligence.BankAccounts,
			UpiIDs:       rep.Intelligence.UpiIDs,
			Links:        rep.Intelligence.PhishingLinks,
		}
		if err := c.events.Publish(events.SubjectScamDetected, evt); err != nil {
			c.logger.Error("failed to publish detection", "report_id", rep.ID, "error", err)
		}
		if !rep.Intelligence.Empty() {
			if err := c.events.Publish(events.SubjectIntelSighting, evt); err != nil {
				c.logger.Error("failed to publish sighting", "report_id", rep.ID, "error", err)
			}
		}
	}

	if c.alerts != nil && !rep.Intelligence.Empty() {
		if err := c.alerts.PostCapture(ctx, rep.Tactic, rep.RiskScore, rep.Intelligence); err != nil {
			c.logger.Error("failed to post capture alert", "report_id", rep.ID, "error", err)
		}
	}
}
