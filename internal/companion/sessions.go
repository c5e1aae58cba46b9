package companion

import (
	"context"
	"errors"

	"github.com/chris/journal/internal/journal"
	"go.uber.org/zap"
)

// Delivery says how a prompt reached the user; it only changes the wording.
type Delivery int

const (
	Manual Delivery = iota
	Scheduled
)

// Start initializes a user on first contact. Existing users are left as they are.
func (c *Companion) Start(ctx context.Context, id string) (created bool, err error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	_, err = c.load(ctx, id)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, journal.ErrUserNotFound) {
		return false, err
	}
	u := journal.NewUser(id, c.loc.String(), c.defaults)
	if err := c.save(ctx, u); err != nil {
		return false, err
	}
	c.logger.Info("created user", zap.String("user_id", id))
	return true, nil
}

// RequestPrompt opens a fresh session for a user who asked for one.
func (c *Companion) RequestPrompt(ctx context.Context, id string) (journal.Session, error) {
	return c.issue(ctx, id, Manual)
}

// DeliverScheduled opens a session for a user whose slot is due.
func (c *Companion) DeliverScheduled(ctx context.Context, id string) error {
	_, err := c.issue(ctx, id, Scheduled)
	return err
}

// issue moves the user to AwaitingResponse and sends the prompt. The send
// happens under the user's lock so message order always matches the stored
// session. A send failure keeps the persisted session; a persist failure
// sends nothing.
func (c *Companion) issue(ctx context.Context, id string, how Delivery) (journal.Session, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	u, err := c.load(ctx, id)
	if err != nil {
		return journal.Session{}, err
	}
	p := c.prompts.Next(u.PromptCount)
	next, fx, err := journal.Apply(u, journal.PromptIssued{
		Prompt:   p.Text,
		Category: p.Category,
		At:       c.Now(),
	})
	if err != nil {
		return journal.Session{}, err
	}
	if err := c.save(ctx, next); err != nil {
		return journal.Session{}, err
	}

	log := c.logger.With(zap.String("user_id", id), zap.String("category", string(p.Category)), zap.Int("prompt_count", next.PromptCount))
	if fx.Replaced != nil {
		log.Info("discarded unanswered prompt", zap.Time("issued_at", fx.Replaced.IssuedAt))
	}

	session := *fx.Opened
	if err := c.sender.Send(ctx, id, RenderPrompt(session, how), nil); err != nil {
		return session, &journal.DispatchError{UserID: id, Err: err}
	}
	log.Info("issued prompt", zap.Bool("scheduled", how == Scheduled))
	return session, nil
}

// Respond feeds free text into the user's open session. Unknown users get
// journal.ErrUserNotFound. handled is false when the user is idle; that text
// is not a journal response. The
// acknowledgement is written after the user's lock is released.
func (c *Companion) Respond(ctx context.Context, id, text string) (reply string, handled bool, err error) {
	entry, history, handled, err := c.complete(ctx, id, text)
	if !handled || err != nil {
		return "", handled, err
	}
	return c.ack.Acknowledge(ctx, entry, history), true, nil
}

func (c *Companion) complete(ctx context.Context, id, text string) (journal.Entry, []journal.Entry, bool, error) {
	unlock := c.locks.Lock(id)
	defer unlock()

	u, err := c.load(ctx, id)
	if err != nil {
		return journal.Entry{}, nil, false, err
	}
	next, fx, err := journal.Apply(u, journal.ResponseReceived{Text: text, At: c.Now()})
	if errors.Is(err, journal.ErrNoOpenSession) {
		return journal.Entry{}, nil, false, nil
	}
	if err != nil {
		return journal.Entry{}, nil, false, err
	}
	if err := c.save(ctx, next); err != nil {
		return journal.Entry{}, nil, true, err
	}
	c.logger.Info("saved journal entry",
		zap.String("user_id", id),
		zap.String("category", string(fx.Entry.Category)),
		zap.Int("entries", len(next.Responses)),
	)
	return *fx.Entry, u.Recent(c.maxHistory), true, nil
}
