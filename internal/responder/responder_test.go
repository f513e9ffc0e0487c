package responder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestStance(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"reward", "Congratulations, you have been selected!", StanceExcited},
		{"threat", "Your account will be blocked immediately", StanceWorried},
		{"neutral", "Hello, how are you today?", StanceNeutral},
		{"reward beats threat", "You won a prize but act immediately or lose it", StanceExcited},
		{"case insensitive", "URGENT: legal notice", StanceWorried},
		{"cashback", "Get 10% cashback on your next recharge", StanceExcited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stance(tt.text); got != tt.want {
				t.Errorf("Stance(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestFormatHistory(t *testing.T) {
	if got := FormatHistory(nil); got != "No prior messages." {
		t.Errorf("empty history = %q", got)
	}

	history := []Turn{
		{Sender: "scammer", Text: "Your KYC is pending"},
		{Sender: "user", Text: "What do I need to do?"},
	}
	want := "Scammer: Your KYC is pending\nUser: What do I need to do?"
	if got := FormatHistory(history); got != want {
		t.Errorf("FormatHistory = %q, want %q", got, want)
	}
}

type stubGenerator struct {
	reply string
	err   error
	// captured inputs
	system string
	user   string
}

func (s *stubGenerator) Complete(_ context.Context, system, user string, _ int) (string, error) {
	s.system = system
	s.user = user
	return s.reply, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReply_GeneratorUnavailable(t *testing.T) {
	r := New(nil, testLogger())
	if r.Available() {
		t.Error("Available() = true with nil generator")
	}

	reply, stance := r.Reply(context.Background(), "your account will be blocked", nil)
	if reply != FallbackUnavailable {
		t.Errorf("reply = %q, want unavailable fallback", reply)
	}
	if stance != StanceWorried {
		t.Errorf("stance = %q, want worried", stance)
	}
}

func TestReply_GeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("timeout")}
	r := New(gen, testLogger())

	reply, _ := r.Reply(context.Background(), "hello", nil)
	if reply != FallbackUnavailable {
		t.Errorf("reply = %q, want unavailable fallback", reply)
	}
}

func TestReply_EmptyOutput(t *testing.T) {
	gen := &stubGenerator{reply: "   \n"}
	r := New(gen, testLogger())

	reply, _ := r.Reply(context.Background(), "hello", nil)
	if reply != FallbackEmpty {
		t.Errorf("reply = %q, want empty-output fallback", reply)
	}
}

func TestReply_PromptContents(t *testing.T) {
	gen := &stubGenerator{reply: "Oh no, what happened to my account?"}
	r := New(gen, testLogger())

	history := []Turn{{Sender: "scammer", Text: "KYC update needed"}}
	reply, stance := r.Reply(context.Background(), "your account will be suspended today", history)

	if reply != "Oh no, what happened to my account?" {
		t.Errorf("reply = %q", reply)
	}
	if stance != StanceWorried {
		t.Errorf("stance = %q, want worried", stance)
	}
	if !strings.Contains(gen.user, "Scammer: KYC update needed") {
		t.Errorf("user prompt missing formatted history:\n%s", gen.user)
	}
	if !strings.Contains(gen.user, `"your account will be suspended today"`) {
		t.Errorf("user prompt missing latest message:\n%s", gen.user)
	}
	if !strings.Contains(gen.user, "Emotional stance to use: worried") {
		t.Errorf("user prompt missing stance:\n%s", gen.user)
	}
	if !strings.Contains(gen.system, "Never mention scams, fraud, safety, or AI") {
		t.Errorf("system prompt missing hard rules:\n%s", gen.system)
	}
}
