package assistant

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBuildPayload_NewThread(t *testing.T) {
	t.Parallel()

	p := buildPayload("hello", "model-a", true, "")

	if p.Focus.ThreadID != "" {
		t.Errorf("new thread must not carry a thread id, got %q", p.Focus.ThreadID)
	}
	if p.Focus.MessageID != "" {
		t.Errorf("new thread must not carry a message id, got %q", p.Focus.MessageID)
	}
	if p.Focus.BranchID != branchSentinel {
		t.Errorf("branch id must be the sentinel, got %q", p.Focus.BranchID)
	}
	if p.Focus.Prompt != "hello" {
		t.Errorf("prompt not carried, got %q", p.Focus.Prompt)
	}
}

func TestBuildPayload_Continuation(t *testing.T) {
	t.Parallel()

	p := buildPayload("again", "model-a", false, "thread-T")

	if p.Focus.ThreadID != "thread-T" {
		t.Errorf("continuation must echo the thread id, got %q", p.Focus.ThreadID)
	}
	if p.Focus.MessageID == "" {
		t.Error("continuation must generate a message id")
	}
	if p.Profile.InternetAccess {
		t.Error("internet access flag not carried")
	}

	// Each turn gets its own message id.
	q := buildPayload("again", "model-a", false, "thread-T")
	if q.Focus.MessageID == p.Focus.MessageID {
		t.Errorf("message id must be fresh per turn, got %q twice", p.Focus.MessageID)
	}
}

func TestBuildPayload_WireShape(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(buildPayload("hi", "model-a", true, "thread-T"))
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	body := string(raw)

	for _, field := range []string{
		`"focus"`, `"profile"`, `"threads"`,
		`"threadId":"thread-T"`, `"branchId":"` + branchSentinel + `"`,
		`"prompt":"hi"`, `"messageId"`,
		`"model":"model-a"`, `"internetAccess":true`,
		`"personalizationsEnabled":true`, `"lensId":null`,
		`"tagIds":[]`, `"saved":false`, `"shared":false`,
	} {
		if !strings.Contains(body, field) {
			t.Errorf("wire payload missing %s: %s", field, body)
		}
	}
}

func TestBuildPayload_NewThreadOmitsOptionalFields(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(buildPayload("hi", "model-a", true, ""))
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	body := string(raw)

	if strings.Contains(body, "threadId") || strings.Contains(body, "messageId") {
		t.Errorf("fresh-thread payload must omit threadId and messageId: %s", body)
	}
}
