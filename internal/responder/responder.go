package responder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"
)

// Emotional stances the agent can adopt.
const (
	StanceExcited = "excited"
	StanceWorried = "worried"
	StanceNeutral = "neutral"
)

// Fixed fallback sentences. The first covers an unavailable or failing
// generator, the second a call that succeeded but produced nothing.
const (
	FallbackUnavailable = "Sorry, I didn't fully understand. Can you explain again?"
	FallbackEmpty       = "Okay, I see. Can you explain what I should do next?"
)

const replyMaxTokens = 80

// Generator is the external free-text collaborator. A single attempt per
// reply; any failure is absorbed by the responder.
type Generator interface {
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// Turn is one prior exchange in the conversation.
type Turn struct {
	Sender string
	Text   string
}

type Responder struct {
	gen    Generator
	logger *slog.Logger
}

func New(gen Generator, logger *slog.Logger) *Responder {
	return &Responder{gen: gen, logger: logger}
}

// Available reports whether the text-generation collaborator was configured.
func (r *Responder) Available() bool {
	return r.gen != nil
}

// Stance picks the emotional stance for a message. Reward keywords are
// checked first, so a message promising a prize under threat of a deadline
// still reads as excited.
func Stance(text string) string {
	lowered := strings.ToLower(text)

	for _, w := range rewardKeywords {
		if strings.Contains(lowered, w) {
			return StanceExcited
		}
	}
	for _, w := range threatKeywords {
		if strings.Contains(lowered, w) {
			return StanceWorried
		}
	}
	return StanceNeutral
}

// Reply produces the agent's next message along with the stance it adopted.
// Collaborator failure or empty output degrades to a fixed fallback; Reply
// itself never fails.
func (r *Responder) Reply(ctx context.Context, text string, history []Turn) (string, string) {
	stance := Stance(text)

	if r.gen == nil {
		return FallbackUnavailable, stance
	}

	user := fmt.Sprintf(userPromptTemplate, FormatHistory(history), text, stance)

	raw, err := r.gen.Complete(ctx, systemPrompt, user, replyMaxTokens)
	if err != nil {
		r.logger.Warn("reply generation failed, using fallback", "error", err)
		return FallbackUnavailable, stance
	}

	reply := strings.TrimSpace(raw)
	if reply == "" {
		return FallbackEmpty, stance
	}
	return reply, stance
}

// FormatHistory renders prior turns as a natural dialogue for the prompt.
func FormatHistory(history []Turn) string {
	if len(history) == 0 {
		return "No prior messages."
	}

	lines := make([]string, 0, len(history))
	for _, t := range history {
		lines = append(lines, capitalize(t.Sender)+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
