package llm

// TrimMessages drops the oldest messages until the rest fit within maxTokens.
// The last message is always kept, even when it alone exceeds the budget.
func TrimMessages(messages []Message, maxTokens int) []Message {
	if len(messages) == 0 {
		return messages
	}

	total := EstimateMessagesTokens(messages)
	if total <= maxTokens {
		return messages
	}

	dropUntil := 0
	for dropUntil < len(messages)-1 && total > maxTokens {
		total -= EstimateMessageTokens(messages[dropUntil])
		dropUntil++
	}
	return messages[dropUntil:]
}
