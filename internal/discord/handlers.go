package discord

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// handlerTimeout bounds the work done for one incoming event.
const handlerTimeout = 30 * time.Second

func (b *Bot) onMessage(h *Handler, s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}
	// DMs only
	if m.GuildID != "" {
		return
	}

	b.mu.Lock()
	b.channels[m.Author.ID] = m.ChannelID
	b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := s.ChannelTyping(m.ChannelID); err != nil {
		b.logger.Debug("typing indicator", zap.Error(err))
	}
	for _, r := range h.HandleMessage(ctx, m.Author.ID, m.Content) {
		if err := b.post(ctx, m.ChannelID, r); err != nil {
			b.logger.Error("replying", zap.String("user_id", m.Author.ID), zap.Error(err))
			return
		}
	}
}

func (b *Bot) onInteraction(h *Handler, s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	user := i.User
	if user == nil && i.Member != nil {
		user = i.Member.User
	}
	if user == nil {
		return
	}
	data := i.MessageComponentData()
	if len(data.Values) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	content := h.HandleSelect(ctx, user.ID, data.CustomID, data.Values[0])
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		b.logger.Error("answering menu", zap.String("user_id", user.ID), zap.Error(err))
	}
}

// splitMessage cuts s into pieces of at most maxLen bytes, preferring to break
// after a newline and never inside a UTF-8 sequence.
func splitMessage(s string, maxLen int) []string {
	if len(s) <= maxLen {
		return []string{s}
	}
	var chunks []string
	for len(s) > 0 {
		end := maxLen
		if end > len(s) {
			end = len(s)
		}
		if end < len(s) {
			if idx := strings.LastIndex(s[:end], "\n"); idx > 0 {
				end = idx + 1
			} else {
				for end > 1 && !utf8Start(s[end]) {
					end--
				}
			}
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	return chunks
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
