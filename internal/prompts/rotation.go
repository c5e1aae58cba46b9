package prompts

import "github.com/chris/journal/internal/journal"

// Next selects the prompt for a user who has consumed count prompts so far.
// Even counts serve self-awareness, odd counts serve connection, and each
// category walks its own list in order, wrapping when exhausted:
//
//	count 0 -> self_awareness[0]
//	count 1 -> connection[0]
//	count 2 -> self_awareness[1]
//
// Negative counts are treated as zero.
func (c *Catalog) Next(count int) Prompt {
	if count < 0 {
		count = 0
	}
	cat := journal.SelfAwareness
	list := c.selfAwareness
	if count%2 == 1 {
		cat = journal.Connection
		list = c.connection
	}
	return Prompt{Text: list[(count/2)%len(list)], Category: cat}
}
