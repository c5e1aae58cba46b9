package discord

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/chris/journal/internal/companion"
	"go.uber.org/zap"
)

// Discord rejects messages over this many characters.
const maxMessageLen = 2000

// Bot is the Discord transport. It delivers companion messages over DMs and
// feeds incoming DMs to a Handler.
type Bot struct {
	session *discordgo.Session
	logger  *zap.Logger

	mu       sync.Mutex
	channels map[string]string // user id -> DM channel id
}

// New creates the session without connecting; call Open once the handler
// exists.
func New(token string, logger *zap.Logger) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsDirectMessages
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{
		session:  s,
		logger:   logger.Named("discord"),
		channels: make(map[string]string),
	}, nil
}

// Open registers h and connects.
func (b *Bot) Open(h *Handler) error {
	b.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.onMessage(h, s, m)
	})
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.onInteraction(h, s, i)
	})
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening Discord connection: %w", err)
	}
	b.logger.Info("connected", zap.String("username", b.session.State.User.Username))
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// Send implements companion.Sender by DMing the user.
func (b *Bot) Send(ctx context.Context, userID, text string, menu *companion.Menu) error {
	channelID, err := b.dmChannel(ctx, userID)
	if err != nil {
		return err
	}
	return b.post(ctx, channelID, Reply{Text: text, Menu: menu})
}

func (b *Bot) dmChannel(ctx context.Context, userID string) (string, error) {
	b.mu.Lock()
	id, ok := b.channels[userID]
	b.mu.Unlock()
	if ok {
		return id, nil
	}
	ch, err := b.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("opening DM with %s: %w", userID, err)
	}
	b.mu.Lock()
	b.channels[userID] = ch.ID
	b.mu.Unlock()
	return ch.ID, nil
}

// post sends r in as many messages as the length limit needs. The menu and any
// file ride on the last one.
func (b *Bot) post(ctx context.Context, channelID string, r Reply) error {
	chunks := splitMessage(r.Text, maxMessageLen)
	for i, chunk := range chunks {
		msg := &discordgo.MessageSend{Content: chunk}
		if i == len(chunks)-1 {
			if r.Menu != nil {
				msg.Components = components(r.Menu)
			}
			if r.File != nil {
				msg.Files = []*discordgo.File{{
					Name:        r.File.Name,
					ContentType: r.File.ContentType,
					Reader:      bytes.NewReader(r.File.Data),
				}}
			}
		}
		if msg.Content == "" && msg.Files == nil && msg.Components == nil {
			continue
		}
		if _, err := b.session.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("sending message: %w", err)
		}
	}
	return nil
}

func components(m *companion.Menu) []discordgo.MessageComponent {
	opts := make([]discordgo.SelectMenuOption, 0, len(m.Options))
	for _, o := range m.Options {
		opts = append(opts, discordgo.SelectMenuOption{Label: o.Label, Value: o.Value})
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.SelectMenu{
				MenuType:    discordgo.StringSelectMenu,
				CustomID:    m.ID,
				Placeholder: m.Placeholder,
				Options:     opts,
			},
		}},
	}
}
