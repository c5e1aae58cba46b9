package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chris/journal/internal/journal"
	"go.uber.org/zap"
)

const (
	defaultAckTimeout = 20 * time.Second
	// contextBudget caps the tokens of journal context sent with each entry.
	contextBudget = 2000
	savedSuffix   = "\n\n✨ Your response has been saved. Use /prompt when you're ready for another question."
)

// Fallback produces an acknowledgement without a model.
type Fallback interface {
	Acknowledge(ctx context.Context, e journal.Entry, history []journal.Entry) string
}

// Acknowledger asks a model for a short reply to a saved entry, and uses the
// fallback whenever the model fails or says nothing.
type Acknowledger struct {
	client   Client
	fallback Fallback
	timeout  time.Duration
	logger   *zap.Logger
}

func NewAcknowledger(client Client, fallback Fallback, timeout time.Duration, logger *zap.Logger) *Acknowledger {
	if timeout <= 0 {
		timeout = defaultAckTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Acknowledger{client: client, fallback: fallback, timeout: timeout, logger: logger.Named("llm")}
}

// Acknowledge replies to e. history holds earlier entries, newest first.
func (a *Acknowledger) Acknowledge(ctx context.Context, e journal.Entry, history []journal.Entry) string {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	msgs := TrimMessages(conversation(e, history), contextBudget)
	start := time.Now()
	reply, err := a.client.Chat(ctx, AcknowledgePrompt, msgs)
	if err != nil {
		a.logger.Warn("acknowledgement failed, using fallback", zap.Error(err))
		return a.fallback.Acknowledge(ctx, e, history)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		a.logger.Warn("empty acknowledgement, using fallback")
		return a.fallback.Acknowledge(ctx, e, history)
	}
	a.logger.Debug("acknowledged entry",
		zap.Duration("took", time.Since(start)),
		zap.Int("context_messages", len(msgs)),
	)
	return reply + savedSuffix
}

// conversation renders history oldest first, then the new entry last.
func conversation(e journal.Entry, history []journal.Entry) []Message {
	msgs := make([]Message, 0, len(history)+1)
	for i := len(history) - 1; i >= 0; i-- {
		h := history[i]
		msgs = append(msgs, Message{
			Role: "user",
			Content: fmt.Sprintf("(Earlier entry, %s) Prompt: %s\nMy answer: %s",
				h.Timestamp.Format("2006-01-02"), h.Prompt, h.Response),
		})
	}
	msgs = append(msgs, Message{
		Role:    "user",
		Content: fmt.Sprintf("Prompt (%s): %s\nMy answer: %s", e.Category.Label(), e.Prompt, e.Response),
	})
	return msgs
}
