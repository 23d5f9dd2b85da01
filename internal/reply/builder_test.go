package reply

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/capitalize-ai/datastore-webhooks/internal/model"
)

// roundTrip renders env and decodes it back into a generic map, the way the
// front-end sees it.
func roundTrip(t *testing.T, env model.ReplyEnvelope) map[string]any {
	t.Helper()
	data, err := json.Marshal(Render(env))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	return out
}

func TestSearch_HappyPath(t *testing.T) {
	out := roundTrip(t, Search(&model.SearchResult{Content: "Refunds within 30 days."}))

	if out["response_text"] != "Refunds within 30 days." {
		t.Errorf("response_text = %v", out["response_text"])
	}
	if !reflect.DeepEqual(out["session_info"], map[string]any{}) {
		t.Errorf("session_info = %v, want {}", out["session_info"])
	}
}

func TestSearch_NoResult(t *testing.T) {
	out := roundTrip(t, Search(nil))

	if out["response_text"] != ApologyText {
		t.Errorf("response_text = %v", out["response_text"])
	}
	params := out["session_info"].(map[string]any)["parameters"].(map[string]any)
	if params[ParamError] != true {
		t.Errorf("ds_error = %v, want true", params[ParamError])
	}
	if params[ParamErrorMessage] != "failed to search a response" {
		t.Errorf("ds_error_message = %v", params[ParamErrorMessage])
	}
}

func TestAnswer_RelatedQuestions(t *testing.T) {
	out := roundTrip(t, Answer(&model.AnswerResult{
		AnswerText:       "Open 9-5.",
		RelatedQuestions: []string{"What about weekends?"},
		SessionID:        "sessions/abc",
		SessionState:     "COMPLETED",
	}))

	want := map[string]any{
		"ds_answer":            "Open 9-5.",
		"ds_related_questions": []any{"What about weekends?"},
		"ds_session":           "sessions/abc",
		"ds_state":             "COMPLETED",
	}
	params := out["session_info"].(map[string]any)["parameters"]
	if !reflect.DeepEqual(params, want) {
		t.Errorf("parameters = %v, want %v", params, want)
	}
	if out["response_text"] != "Open 9-5." {
		t.Errorf("response_text = %v", out["response_text"])
	}
}

func TestAnswer_WithoutSession(t *testing.T) {
	env := Answer(&model.AnswerResult{AnswerText: "Yes."})

	if _, ok := env.SessionParameters[ParamSession]; ok {
		t.Error("ds_session present without a backend session")
	}
	if _, ok := env.SessionParameters[ParamState]; ok {
		t.Error("ds_state present without a backend session")
	}
	related, ok := env.SessionParameters[ParamRelatedQuestions].([]string)
	if !ok || related == nil || len(related) != 0 {
		t.Errorf("ds_related_questions = %#v, want empty list", env.SessionParameters[ParamRelatedQuestions])
	}
}

func TestConversation(t *testing.T) {
	env := Conversation(&model.ConversationResult{
		ReplyText:   "Hi there.",
		SummaryText: "Hi there.",
		SessionJSON: `{"name":"conversations/1"}`,
		State:       "IN_PROGRESS",
	})

	want := map[string]any{
		"ds_reply":   "Hi there.",
		"ds_summary": "Hi there.",
		"ds_session": `{"name":"conversations/1"}`,
		"ds_state":   "IN_PROGRESS",
	}
	if !reflect.DeepEqual(env.SessionParameters, want) {
		t.Errorf("parameters = %v, want %v", env.SessionParameters, want)
	}
	if env.IsError {
		t.Error("IsError = true")
	}
}

func TestError_PerRoute(t *testing.T) {
	tests := []struct {
		route model.Route
		env   model.ReplyEnvelope
		want  string
	}{
		{model.RouteSearch, Search(nil), "failed to search a response"},
		{model.RouteAnswer, Answer(nil), "failed to return an answer response"},
		{model.RouteConversation, Conversation(nil), "failed to return a reply"},
		{model.Route("other"), Error("other"), "failed to return a response"},
	}

	for _, tt := range tests {
		t.Run(string(tt.route), func(t *testing.T) {
			if !tt.env.IsError {
				t.Error("IsError = false")
			}
			if tt.env.ResponseText != ApologyText {
				t.Errorf("ResponseText = %q", tt.env.ResponseText)
			}
			want := map[string]any{ParamError: true, ParamErrorMessage: tt.want}
			if !reflect.DeepEqual(tt.env.SessionParameters, want) {
				t.Errorf("parameters = %v, want %v", tt.env.SessionParameters, want)
			}
		})
	}
}

func TestRender_Fulfillment(t *testing.T) {
	ok := Render(Search(&model.SearchResult{Content: "x"}))
	if ok.FulfillmentResponse == nil || ok.FulfillmentResponse.MergeBehavior != MergeBehaviorAppend {
		t.Errorf("fulfillment = %+v, want APPEND", ok.FulfillmentResponse)
	}
	if got := ok.FulfillmentResponse.Messages[0].Text.Text[0]; got != "x" {
		t.Errorf("message text = %q", got)
	}

	failed := Render(Search(nil))
	if failed.FulfillmentResponse.MergeBehavior != "" {
		t.Errorf("MergeBehavior = %q, want unset on error", failed.FulfillmentResponse.MergeBehavior)
	}
	if got := failed.FulfillmentResponse.Messages[0].Text.Text[0]; got != ApologyText {
		t.Errorf("message text = %q", got)
	}
}
