// Package reply renders route results into the webhook reply envelope.
package reply

import (
	"github.com/capitalize-ai/datastore-webhooks/internal/model"
)

// ApologyText is returned to the end user whenever a turn fails.
const ApologyText = "Sorry, I am unable to answer your question."

// Session parameter keys.
const (
	ParamAnswer           = "ds_answer"
	ParamRelatedQuestions = "ds_related_questions"
	ParamReply            = "ds_reply"
	ParamSummary          = "ds_summary"
	ParamSession          = model.SessionParameter
	ParamState            = "ds_state"
	ParamError            = "ds_error"
	ParamErrorMessage     = "ds_error_message"
)

// MergeBehaviorAppend appends the reply to messages already queued by the agent.
const MergeBehaviorAppend = "APPEND"

var errorMessages = map[model.Route]string{
	model.RouteSearch:       "failed to search a response",
	model.RouteAnswer:       "failed to return an answer response",
	model.RouteConversation: "failed to return a reply",
}

// ErrorMessage returns the route-specific error message.
func ErrorMessage(route model.Route) string {
	if msg, ok := errorMessages[route]; ok {
		return msg
	}
	return "failed to return a response"
}

// Search builds the reply for a search turn. Search is stateless and carries no
// session parameters.
func Search(result *model.SearchResult) model.ReplyEnvelope {
	if result == nil {
		return Error(model.RouteSearch)
	}
	return model.ReplyEnvelope{ResponseText: result.Content}
}

// Answer builds the reply for an answer turn.
func Answer(result *model.AnswerResult) model.ReplyEnvelope {
	if result == nil {
		return Error(model.RouteAnswer)
	}

	related := result.RelatedQuestions
	if related == nil {
		related = []string{}
	}
	params := map[string]any{
		ParamAnswer:           result.AnswerText,
		ParamRelatedQuestions: related,
	}
	if result.SessionID != "" {
		params[ParamSession] = result.SessionID
	}
	if result.SessionState != "" {
		params[ParamState] = result.SessionState
	}

	return model.ReplyEnvelope{
		ResponseText:      result.AnswerText,
		SessionParameters: params,
	}
}

// Conversation builds the reply for a conversation turn.
func Conversation(result *model.ConversationResult) model.ReplyEnvelope {
	if result == nil {
		return Error(model.RouteConversation)
	}
	return model.ReplyEnvelope{
		ResponseText: result.ReplyText,
		SessionParameters: map[string]any{
			ParamReply:   result.ReplyText,
			ParamSummary: result.SummaryText,
			ParamSession: result.SessionJSON,
			ParamState:   result.State,
		},
	}
}

// Error builds the apology reply for a failed turn on route.
func Error(route model.Route) model.ReplyEnvelope {
	return ErrorWithMessage(ErrorMessage(route))
}

// ErrorWithMessage builds the apology reply carrying message.
func ErrorWithMessage(message string) model.ReplyEnvelope {
	return model.ReplyEnvelope{
		ResponseText: ApologyText,
		SessionParameters: map[string]any{
			ParamError:        true,
			ParamErrorMessage: message,
		},
		IsError: true,
	}
}

// Render converts an envelope into the JSON body returned to the front-end.
func Render(env model.ReplyEnvelope) model.WebhookResponse {
	resp := model.WebhookResponse{
		ResponseText: env.ResponseText,
		SessionInfo:  model.SessionInfo{Parameters: env.SessionParameters},
		FulfillmentResponse: &model.FulfillmentResponse{
			Messages: []model.ResponseMessage{
				{Text: model.ResponseText{Text: []string{env.ResponseText}}},
			},
		},
	}
	if !env.IsError {
		resp.FulfillmentResponse.MergeBehavior = MergeBehaviorAppend
	}
	return resp
}
