package llm

import "testing"

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"empty", "", 0},
		{"short", "hi", 1},
		{"exactly four chars", "test", 1},
		{"five chars rounds up", "hello", 2},
		{"typical sentence", "The quick brown fox jumps over the lazy dog.", 11},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateTokens(tt.input)
			if got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestEstimateMessageTokens(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want int
	}{
		{"simple user message", Message{Role: "user", Content: "hello"}, 4 + 2},
		{"empty message", Message{Role: "assistant"}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateMessageTokens(tt.msg)
			if got != tt.want {
				t.Errorf("EstimateMessageTokens() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEstimateMessagesTokens(t *testing.T) {
	messages := []Message{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "hi there"},
	}
	// msg1: 4+2=6, msg2: 4+2=6
	if got := EstimateMessagesTokens(messages); got != 12 {
		t.Errorf("EstimateMessagesTokens() = %d, want 12", got)
	}
}

func TestTrimMessages_UnderBudget(t *testing.T) {
	msgs := []Message{{Role: "user", Content: "hello"}, {Role: "user", Content: "again"}}
	if got := TrimMessages(msgs, 100000); len(got) != 2 {
		t.Errorf("expected 2 messages unchanged, got %d", len(got))
	}
}

func TestTrimMessages_Empty(t *testing.T) {
	if got := TrimMessages(nil, 100); len(got) != 0 {
		t.Errorf("expected 0 messages, got %d", len(got))
	}
}

func TestTrimMessages_DropsOldestFirst(t *testing.T) {
	msgs := []Message{
		{Role: "user", Content: "first entry"},
		{Role: "user", Content: "second entry"},
		{Role: "user", Content: "third entry"},
	}
	budget := EstimateMessagesTokens(msgs[1:])
	got := TrimMessages(msgs, budget)
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Content != "second entry" || got[1].Content != "third entry" {
		t.Errorf("kept %v", got)
	}
}

func TestTrimMessages_AlwaysKeepsLast(t *testing.T) {
	msgs := []Message{
		{Role: "user", Content: "old"},
		{Role: "user", Content: "a very long entry that blows the budget on its own"},
	}
	got := TrimMessages(msgs, 1)
	if len(got) != 1 || got[0].Content != msgs[1].Content {
		t.Errorf("expected only the last message, got %v", got)
	}
}
