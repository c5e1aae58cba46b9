package llm

// charsPerToken approximates English prose, which journal entries are.
const charsPerToken = 4

// EstimateTokens returns a rough token count for s, rounded up.
func EstimateTokens(s string) int {
	if len(s) == 0 {
		return 0
	}
	return (len(s) + charsPerToken - 1) / charsPerToken
}

// EstimateMessageTokens counts one prompt or entry turn plus its role framing.
func EstimateMessageTokens(m Message) int {
	return 4 + EstimateTokens(m.Content)
}

func EstimateMessagesTokens(messages []Message) int {
	total := 0
	for _, m := range messages {
		total += EstimateMessageTokens(m)
	}
	return total
}
