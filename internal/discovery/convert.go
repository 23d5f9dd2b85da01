package discovery

import (
	"github.com/capitalize-ai/datastore-webhooks/internal/model"
)

// ConversationFromHandle rebuilds a backend conversation from its JSON-safe
// handle. A nil handle yields nil.
func ConversationFromHandle(h *model.ConversationHandle) *Conversation {
	if h == nil {
		return nil
	}

	conv := &Conversation{
		Name:         h.Name,
		State:        h.State,
		UserPseudoID: h.UserPseudoID,
		StartTime:    h.StartTime,
		EndTime:      h.EndTime,
	}
	for _, m := range h.Messages {
		msg := ConversationMessage{CreateTime: m.CreateTime}
		if m.UserInput != nil {
			msg.UserInput = &TextInput{Input: m.UserInput.Input}
		}
		if m.Reply != nil {
			msg.Reply = &Reply{Reply: m.Reply.Reply}
			if m.Reply.SummaryText != "" {
				msg.Reply.Summary = &Summary{SummaryText: m.Reply.SummaryText}
			}
		}
		conv.Messages = append(conv.Messages, msg)
	}
	return conv
}

// Handle converts the conversation into its JSON-safe handle.
func (c *Conversation) Handle() *model.ConversationHandle {
	if c == nil {
		return nil
	}

	h := &model.ConversationHandle{
		Name:         c.Name,
		State:        c.State,
		UserPseudoID: c.UserPseudoID,
		Messages:     make([]model.ConversationMessage, 0, len(c.Messages)),
		StartTime:    c.StartTime,
		EndTime:      c.EndTime,
	}
	for _, m := range c.Messages {
		msg := model.ConversationMessage{CreateTime: m.CreateTime}
		if m.UserInput != nil {
			msg.UserInput = &model.TextInput{Input: m.UserInput.Input}
		}
		if m.Reply != nil {
			msg.Reply = &model.Reply{Reply: m.Reply.Reply}
			if m.Reply.Summary != nil {
				msg.Reply.SummaryText = m.Reply.Summary.SummaryText
			}
		}
		h.Messages = append(h.Messages, msg)
	}
	return h
}

// Text returns the reply text, falling back to the summary when the legacy
// reply field is empty.
func (r *Reply) Text() string {
	if r == nil {
		return ""
	}
	if r.Reply != "" {
		return r.Reply
	}
	return r.SummaryText()
}

// SummaryText returns the summary text, or "" when there is no summary.
func (r *Reply) SummaryText() string {
	if r == nil || r.Summary == nil {
		return ""
	}
	return r.Summary.SummaryText
}
