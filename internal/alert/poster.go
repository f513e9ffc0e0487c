package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/decoynet/lure/internal/intel"
)

const defaultPostMessageURL = "https://slack.com/api/chat.postMessage"

// Poster sends analyst notifications to a Slack channel when the honeypot
// captures actionable artifacts.
type Poster struct {
	token   string
	channel string
	client  *http.Client
	logger  *slog.Logger
	apiURL  string
}

func NewPoster(token, channel string, logger *slog.Logger) *Poster {
	return &Poster{
		token:   token,
		channel: channel,
		client:  &http.Client{Timeout: 10 * time.Second},
		apiURL:  defaultPostMessageURL,
		logger:  logger,
	}
}

// PostCapture posts a capture summary for analyst triage.
func (p *Poster) PostCapture(ctx context.Context, tactic string, riskScore float64, in intel.Intelligence) error {
	text := formatCaptureMessage(tactic, riskScore, in)

	body, err := json.Marshal(map[string]any{
		"channel": p.channel,
		"text":    text,
		"blocks": []map[string]any{
			{
				"type": "section",
				"text": map[string]any{
					"type": "mrkdwn",
					"text": text,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var slackResp struct {
		OK    bool   `json:"ok"`
		TS    string `json:"ts"`
		Error string `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBody, &slackResp); err != nil {
		return fmt.Errorf("parse slack response: %w", err)
	}
	if !slackResp.OK {
		return fmt.Errorf("slack error: %s", slackResp.Error)
	}

	p.logger.Info("posted capture alert", "ts", slackResp.TS, "tactic", tactic)
	return nil
}

func formatCaptureMessage(tactic string, riskScore float64, in intel.Intelligence) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":fishing_pole_and_fish: *Honeypot capture* — %s (risk %.2f)\n", tactic, riskScore)
	if len(in.BankAccounts) > 0 {
		fmt.Fprintf(&b, "• Bank accounts: `%s`\n", strings.Join(in.BankAccounts, "`, `"))
	}
	if len(in.UpiIDs) > 0 {
		fmt.Fprintf(&b, "• UPI handles: `%s`\n", strings.Join(in.UpiIDs, "`, `"))
	}
	if len(in.PhishingLinks) > 0 {
		fmt.Fprintf(&b, "• Links: %s\n", strings.Join(in.PhishingLinks, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
