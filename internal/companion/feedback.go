package companion

import (
	"context"

	"github.com/chris/journal/internal/journal"
)

const (
	selfAwarenessFeedback = "✨ Thank you for your thoughtful reflection! Your response has been saved.\n\n" +
		"Self-awareness is a journey that takes time and patience.\n" +
		"Use /prompt when you're ready for another question."

	connectionFeedback = "✨ Thank you for sharing! Your response has been saved.\n\n" +
		"Building meaningful connections with others often starts with understanding ourselves.\n" +
		"Use /prompt when you're ready for another question."
)

// StaticAcknowledger replies with fixed text per category.
type StaticAcknowledger struct{}

func (StaticAcknowledger) Acknowledge(_ context.Context, e journal.Entry, _ []journal.Entry) string {
	if e.Category == journal.SelfAwareness {
		return selfAwarenessFeedback
	}
	return connectionFeedback
}
