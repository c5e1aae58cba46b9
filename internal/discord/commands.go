package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chris/journal/internal/companion"
	"github.com/chris/journal/internal/journal"
	"go.uber.org/zap"
)

const (
	unknownCommandText = "I don't know that command. Use /help to see what I can do."
	badDayText         = "Please pick a day between 0 (Monday) and 6 (Sunday)."
	badHourText        = "Please pick an hour between 0 and 23."
)

// Reply is one outgoing message.
type Reply struct {
	Text string
	Menu *companion.Menu
	File *File
}

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Handler turns a user's DM into companion calls and replies. It knows nothing
// about Discord sessions so it can be driven directly.
type Handler struct {
	c      *companion.Companion
	logger *zap.Logger
}

func NewHandler(c *companion.Companion, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{c: c, logger: logger.Named("handler")}
}

// parseCommand splits "/name arg..." into a lower-cased name and the rest.
func parseCommand(content string) (name, arg string, ok bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "/") {
		return "", "", false
	}
	fields := strings.Fields(content)
	name = strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	if name == "" {
		return "", "", false
	}
	arg = strings.TrimSpace(strings.TrimPrefix(content, fields[0]))
	return name, arg, true
}

// HandleMessage processes one DM. Prompts are sent by the companion itself, so
// a successful /prompt yields no replies.
func (h *Handler) HandleMessage(ctx context.Context, userID, content string) []Reply {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	name, arg, ok := parseCommand(content)
	if !ok {
		return h.respond(ctx, userID, content)
	}
	h.logger.Debug("command", zap.String("user_id", userID), zap.String("command", name))

	switch name {
	case "start":
		created, err := h.c.Start(ctx, userID)
		if err != nil {
			return h.fail(userID, name, err)
		}
		if created {
			return text(companion.WelcomeText)
		}
		return text(companion.WelcomeBackText)

	case "prompt":
		if _, err := h.c.RequestPrompt(ctx, userID); err != nil {
			return h.fail(userID, name, err)
		}
		return nil

	case "history":
		entries, err := h.c.History(ctx, userID)
		if err != nil {
			return h.fail(userID, name, err)
		}
		return text(companion.RenderHistory(entries, h.c.Now(), h.c.Location()))

	case "schedule":
		p, err := h.c.Schedule(ctx, userID)
		if err != nil {
			return h.fail(userID, name, err)
		}
		return text(companion.RenderSchedule(p))

	case "schedule_day":
		if arg != "" {
			return text(h.setDay(ctx, userID, arg))
		}
		if _, err := h.c.Schedule(ctx, userID); err != nil {
			return h.fail(userID, name, err)
		}
		return []Reply{{Text: companion.DayMenuText, Menu: companion.DayMenu()}}

	case "schedule_time":
		if arg != "" {
			return text(h.setHour(ctx, userID, arg))
		}
		if _, err := h.c.Schedule(ctx, userID); err != nil {
			return h.fail(userID, name, err)
		}
		return []Reply{{Text: companion.HourMenuText, Menu: companion.HourMenu()}}

	case "schedule_toggle":
		p, err := h.c.ToggleSchedule(ctx, userID)
		if err != nil {
			return h.fail(userID, name, err)
		}
		return text(companion.RenderToggle(p))

	case "export":
		return h.export(ctx, userID)

	case "stats":
		s, err := h.c.Stats(ctx, userID)
		if err != nil {
			return h.fail(userID, name, err)
		}
		return text(companion.RenderStats(s, h.c.Now()))

	case "timezone":
		return text(companion.RenderTimezone(h.c.Now()))

	case "help":
		return text(companion.HelpText)
	}
	return text(unknownCommandText)
}

// HandleSelect applies a menu choice and returns the confirmation text.
func (h *Handler) HandleSelect(ctx context.Context, userID, menuID, value string) string {
	switch menuID {
	case companion.MenuDay:
		return h.setDay(ctx, userID, value)
	case companion.MenuHour:
		return h.setHour(ctx, userID, value)
	}
	h.logger.Warn("unknown menu", zap.String("menu_id", menuID))
	return companion.GenericErrorText
}

func (h *Handler) respond(ctx context.Context, userID, content string) []Reply {
	reply, handled, err := h.c.Respond(ctx, userID, content)
	if errors.Is(err, journal.ErrUserNotFound) {
		return text(companion.NotStartedText)
	}
	if err != nil {
		h.logger.Error("saving response", zap.String("user_id", userID), zap.Error(err))
		return text(companion.SaveErrorText)
	}
	if !handled {
		return text(companion.NoPromptText)
	}
	return text(reply)
}

func (h *Handler) setDay(ctx context.Context, userID, raw string) string {
	day, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return badDayText
	}
	p, err := h.c.SetScheduleDay(ctx, userID, day)
	if errors.Is(err, journal.ErrInvalidDay) {
		return badDayText
	}
	if err != nil {
		return h.fail(userID, "schedule_day", err)[0].Text
	}
	return companion.RenderDaySet(p)
}

func (h *Handler) setHour(ctx context.Context, userID, raw string) string {
	hour, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return badHourText
	}
	p, err := h.c.SetScheduleHour(ctx, userID, hour)
	if errors.Is(err, journal.ErrInvalidHour) {
		return badHourText
	}
	if err != nil {
		return h.fail(userID, "schedule_time", err)[0].Text
	}
	return companion.RenderHourSet(p)
}

func (h *Handler) export(ctx context.Context, userID string) []Reply {
	u, err := h.c.User(ctx, userID)
	if err != nil {
		return h.fail(userID, "export", err)
	}
	if len(u.Responses) == 0 {
		return text(companion.NoEntriesText)
	}
	doc, err := journal.ExportJSON(u, h.c.Now())
	if err != nil {
		return h.fail(userID, "export", err)
	}
	body := journal.ExportText(u.Responses, h.c.Location())
	return []Reply{
		{Text: companion.RenderExportSummary(len(u.Responses), len(body)+len(doc))},
		{Text: body},
		{File: &File{
			Name:        fmt.Sprintf("journal-%s.json", userID),
			ContentType: "application/json",
			Data:        doc,
		}},
	}
}

// fail maps an operation error to what the user sees.
func (h *Handler) fail(userID, op string, err error) []Reply {
	if errors.Is(err, journal.ErrUserNotFound) {
		return text(companion.NotStartedText)
	}
	var derr *journal.DispatchError
	if errors.As(err, &derr) {
		// the session stays open; a later /prompt replaces it
		h.logger.Warn("prompt not delivered", zap.String("user_id", userID), zap.Error(err))
		return text(companion.GenericErrorText)
	}
	h.logger.Error("command failed", zap.String("user_id", userID), zap.String("command", op), zap.Error(err))
	return text(companion.GenericErrorText)
}

func text(s string) []Reply {
	return []Reply{{Text: s}}
}
