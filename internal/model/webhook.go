package model

// Route identifies one of the webhook adapters.
type Route string

const (
	RouteSearch       Route = "search"
	RouteAnswer       Route = "answer"
	RouteConversation Route = "conversation"
)

// SessionParameter is the parameter key carrying session state in both
// directions.
const SessionParameter = "ds_session"

// InboundRequest is the webhook payload sent by the conversational front-end.
type InboundRequest struct {
	Text       string         `json:"text,omitempty"`
	Transcript string         `json:"transcript,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`

	// Dialogflow CX places parameters under session info.
	SessionInfo      *SessionInfo `json:"sessionInfo,omitempty"`
	SessionInfoSnake *SessionInfo `json:"session_info,omitempty"`
}

// Params returns the request parameters, preferring the top-level map.
func (r *InboundRequest) Params() map[string]any {
	if r.Parameters != nil {
		return r.Parameters
	}
	if r.SessionInfo != nil && r.SessionInfo.Parameters != nil {
		return r.SessionInfo.Parameters
	}
	if r.SessionInfoSnake != nil {
		return r.SessionInfoSnake.Parameters
	}
	return nil
}

// Session returns the caller-supplied session value, if any. Null and empty
// string values count as absent.
func (r *InboundRequest) Session() (any, bool) {
	params := r.Params()
	if params == nil {
		return nil, false
	}
	for _, key := range []string{SessionParameter, "session"} {
		v, ok := params[key]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

// SessionInfo carries session parameters.
type SessionInfo struct {
	Parameters map[string]any `json:"parameters,omitempty"`
}

// ReplyEnvelope is the route-independent reply produced for every turn.
// A nil SessionParameters renders as an empty session_info object.
type ReplyEnvelope struct {
	ResponseText      string
	SessionParameters map[string]any
	IsError           bool
}

// WebhookResponse is the JSON body returned to the front-end.
type WebhookResponse struct {
	ResponseText        string               `json:"response_text"`
	FulfillmentResponse *FulfillmentResponse `json:"fulfillment_response,omitempty"`
	SessionInfo         SessionInfo          `json:"session_info"`
}

// FulfillmentResponse mirrors the Dialogflow CX fulfillment block.
type FulfillmentResponse struct {
	Messages      []ResponseMessage `json:"messages"`
	MergeBehavior string            `json:"merge_behavior,omitempty"`
}

// ResponseMessage is a single rich message.
type ResponseMessage struct {
	Text ResponseText `json:"text"`
}

// ResponseText holds the text lines of a message.
type ResponseText struct {
	Text []string `json:"text"`
}
