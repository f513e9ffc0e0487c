package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NATS subjects published by the honeypot.
const (
	SubjectScamDetected       = "honeypot.scam.detected"
	SubjectIntelSighting      = "honeypot.intel.sighting"
	SubjectCampaignIdentified = "honeypot.campaign.identified"
	SubjectAgentRegistered    = "honeypot.agent.lure.registered"
)

// DetectionEvent is emitted on SubjectScamDetected for every conversation
// the classifier flags.
type DetectionEvent struct {
	ReportID     string   `json:"report_id"`
	Tactic       string   `json:"tactic"`
	Stance       string   `json:"stance"`
	RiskScore    float64  `json:"risk_score"`
	MessageCount int      `json:"message_count"`
	Channel      string   `json:"channel,omitempty"`
	BankAccounts []string `json:"bank_accounts"`
	UpiIDs       []string `json:"upi_ids"`
	Links        []string `json:"phishing_links"`
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Close() {
	c.conn.Close()
}
