package journal

import (
	"fmt"
	"time"
)

type State int

const (
	Idle State = iota
	AwaitingResponse
)

func (s State) String() string {
	if s == AwaitingResponse {
		return "awaiting_response"
	}
	return "idle"
}

// State derives the session state from the user's open prompt.
func (u *User) State() State {
	if u.LastPrompt != nil {
		return AwaitingResponse
	}
	return Idle
}

// Event drives a session transition.
type Event interface {
	isEvent()
}

// PromptIssued opens a session, replacing any stale one.
type PromptIssued struct {
	Prompt   string
	Category Category
	At       time.Time
}

// ResponseReceived completes the open session with the user's text.
type ResponseReceived struct {
	Text string
	At   time.Time
}

func (PromptIssued) isEvent()     {}
func (ResponseReceived) isEvent() {}

// Effects describes what a transition did besides changing state.
type Effects struct {
	// Opened is the session now awaiting a response.
	Opened *Session
	// Replaced is a stale session discarded by a second prompt request.
	Replaced *Session
	// Entry is the journal entry appended by a completion.
	Entry *Entry
}

// Apply runs ev against u and returns the next user record. u is not modified;
// callers persist the returned record and only then treat the transition as done.
func Apply(u *User, ev Event) (*User, Effects, error) {
	next := u.Clone()
	switch ev := ev.(type) {
	case PromptIssued:
		var fx Effects
		if next.LastPrompt != nil {
			stale := *next.LastPrompt
			fx.Replaced = &stale
		}
		s := Session{Prompt: ev.Prompt, Category: ev.Category, IssuedAt: ev.At}
		next.LastPrompt = &s
		next.PromptCount++
		opened := s
		fx.Opened = &opened
		return next, fx, nil

	case ResponseReceived:
		if next.LastPrompt == nil {
			return u, Effects{}, ErrNoOpenSession
		}
		e := Entry{
			Prompt:    next.LastPrompt.Prompt,
			Response:  ev.Text,
			Timestamp: ev.At,
			Category:  next.LastPrompt.Category,
		}
		next.Responses = append(next.Responses, e)
		next.LastPrompt = nil
		return next, Effects{Entry: &e}, nil

	default:
		return u, Effects{}, fmt.Errorf("unknown session event %T", ev)
	}
}
