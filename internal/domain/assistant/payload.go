package assistant

import "github.com/kagimcp/kagimcp/pkg/uuid"

// branchSentinel is the constant branch identifier sent on every request;
// the provider's branching feature is unused by this engine.
const branchSentinel = "00000000-0000-4000-0000-000000000000"

// payload is the wire structure POSTed to the assistant endpoint. Field
// names are the provider's literal wire names.
type payload struct {
	Focus   focusBlock   `json:"focus"`
	Profile profileBlock `json:"profile"`
	Threads threadsBlock `json:"threads"`
}

type focusBlock struct {
	ThreadID  string `json:"threadId,omitempty"`
	BranchID  string `json:"branchId"`
	Prompt    string `json:"prompt"`
	MessageID string `json:"messageId,omitempty"`
}

type profileBlock struct {
	Model                   string  `json:"model"`
	InternetAccess          bool    `json:"internetAccess"`
	PersonalizationsEnabled bool    `json:"personalizationsEnabled"`
	LensID                  *string `json:"lensId"`
}

type threadsBlock struct {
	TagIDs []string `json:"tagIds"`
	Saved  bool     `json:"saved"`
	Shared bool     `json:"shared"`
}

// buildPayload constructs the outbound request. A non-empty threadID marks a
// continuation: the thread identifier is echoed back and a fresh message id
// is generated for this turn. An empty threadID opens a new thread, in which
// case both fields stay unset.
func buildPayload(prompt, model string, internetAccess bool, threadID string) payload {
	focus := focusBlock{
		BranchID: branchSentinel,
		Prompt:   prompt,
	}
	if threadID != "" {
		focus.ThreadID = threadID
		focus.MessageID = uuid.NewV7().String()
	}

	return payload{
		Focus: focus,
		Profile: profileBlock{
			Model:                   model,
			InternetAccess:          internetAccess,
			PersonalizationsEnabled: true,
			LensID:                  nil,
		},
		Threads: threadsBlock{
			TagIDs: []string{},
		},
	}
}
