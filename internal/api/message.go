package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/decoynet/lure/internal/composer"
)

// maxBodyBytes caps inbound payloads; evaluation harnesses post small
// snapshots, anything larger is hostile or broken.
const maxBodyBytes = 1 << 20

// The wire types hold every field as raw JSON so that one malformed field
// (wrong type, junk value) degrades to its zero default instead of failing
// the whole request. The endpoint answers 200 with the canonical envelope
// no matter what bytes arrive.
type rawRequest struct {
	Message  json.RawMessage   `json:"message"`
	History  []json.RawMessage `json:"conversationHistory"`
	Metadata json.RawMessage   `json:"metadata"`
}

type rawMessage struct {
	Sender    json.RawMessage `json:"sender"`
	Text      json.RawMessage `json:"text"`
	Timestamp json.RawMessage `json:"timestamp"`
}

type rawMetadata struct {
	Channel  json.RawMessage `json:"channel"`
	Language json.RawMessage `json:"language"`
	Locale   json.RawMessage `json:"locale"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		body = nil
	}

	req := decodeRequest(body)
	resp := s.composer.Compose(r.Context(), req)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// decodeRequest maps arbitrary bytes to a composer request. Non-JSON input
// and unusable fields collapse to zero values; the composer's empty-message
// guard handles the rest.
func decodeRequest(body []byte) *composer.Request {
	var raw rawRequest
	if err := json.Unmarshal(body, &raw); err != nil {
		return &composer.Request{}
	}

	req := &composer.Request{
		Message:  decodeMessage(raw.Message),
		Metadata: decodeMetadata(raw.Metadata),
	}
	for _, entry := range raw.History {
		if m := decodeMessage(entry); m != nil {
			req.History = append(req.History, *m)
		}
	}
	return req
}

func decodeMessage(raw json.RawMessage) *composer.Message {
	if len(raw) == 0 {
		return nil
	}
	var rm rawMessage
	if err := json.Unmarshal(raw, &rm); err != nil {
		return nil
	}
	return &composer.Message{
		Sender:    decodeString(rm.Sender),
		Text:      decodeString(rm.Text),
		Timestamp: decodeString(rm.Timestamp),
	}
}

func decodeMetadata(raw json.RawMessage) composer.Metadata {
	var rm rawMetadata
	if len(raw) == 0 {
		return composer.Metadata{}
	}
	if err := json.Unmarshal(raw, &rm); err != nil {
		return composer.Metadata{}
	}
	return composer.Metadata{
		Channel:  decodeString(rm.Channel),
		Language: decodeString(rm.Language),
		Locale:   decodeString(rm.Locale),
	}
}

// decodeString accepts only JSON strings; anything else is an empty default.
func decodeString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
